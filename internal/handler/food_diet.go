package handler

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mdkhajajamaludin/wellness/internal/model"
	"github.com/mdkhajajamaludin/wellness/internal/queue"
	"github.com/mdkhajajamaludin/wellness/internal/repository"
)

// FoodDietStore is the persistence used by the food diet endpoints.
type FoodDietStore interface {
	List(ctx context.Context, f model.ListFilter) ([]*model.FoodDietRecord, error)
	Create(ctx context.Context, rec *model.FoodDietRecord) (*model.FoodDietRecord, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error
}

// ListFoodDiet handles GET /api/food-diet?user_id=
func (h *RecordHandler) ListFoodDiet(c echo.Context) error {
	f, err := parseListFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	items, err := h.FoodDiet.List(c.Request().Context(), f)
	if err != nil {
		return h.storeFailure(c, ResourceFoodDiet, "list", err, "Failed to fetch food diet records")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateFoodDiet handles POST /api/food-diet.  meal_type and food_name are
// required; the nutrition fields are optional.
func (h *RecordHandler) CreateFoodDiet(c echo.Context) error {
	var body struct {
		UserID   *string     `json:"user_id"`
		MealType string      `json:"meal_type"`
		FoodName string      `json:"food_name"`
		Calories numberValue `json:"calories"`
		Protein  numberValue `json:"protein"`
		Carbs    numberValue `json:"carbs"`
		Fat      numberValue `json:"fat"`
		Notes    *string     `json:"notes"`
	}
	if err := bindJSON(c, &body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !required(body.MealType, body.FoodName) {
		return badRequest(c, "meal_type and food_name are required")
	}
	calories, err := body.Calories.Int()
	if err != nil || (calories != nil && (*calories < math.MinInt32 || *calories > math.MaxInt32)) {
		return badRequest(c, "calories must be a whole number")
	}
	var macros [3]*float64
	for i, v := range []numberValue{body.Protein, body.Carbs, body.Fat} {
		// DECIMAL(5,2), compared after rounding to the stored scale
		d, err := v.Decimal(2)
		if err != nil || (d != nil && (*d < 0 || *d > 999.99)) {
			return badRequest(c, "protein, carbs and fat must be between 0 and 999.99")
		}
		macros[i] = d
	}
	rec, err := h.FoodDiet.Create(c.Request().Context(), &model.FoodDietRecord{
		UserID:   body.UserID,
		MealType: body.MealType,
		FoodName: body.FoodName,
		Calories: calories,
		Protein:  macros[0],
		Carbs:    macros[1],
		Fat:      macros[2],
		Notes:    body.Notes,
	})
	if err != nil {
		return h.storeFailure(c, ResourceFoodDiet, "create", err, "Failed to create food diet record")
	}
	h.emit(queue.EventCreated, ResourceFoodDiet, rec.ID, deref(rec.UserID))
	return c.JSON(http.StatusCreated, rec)
}

// DeleteFoodDiet handles DELETE /api/food-diet/:id with the same optional
// owner scoping as DeleteHealthcare.
func (h *RecordHandler) DeleteFoodDiet(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	owner := c.QueryParam("user_id")
	deleted := int64(1)
	if owner == "" {
		deleted, err = h.FoodDiet.DeleteByID(ctx, id)
	} else {
		err = h.FoodDiet.DeleteByIDAndOwner(ctx, id, owner)
	}
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Food diet record not found or access denied"})
		}
		return h.storeFailure(c, ResourceFoodDiet, "delete", err, "Failed to delete food diet record")
	}
	if deleted > 0 {
		h.emit(queue.EventDeleted, ResourceFoodDiet, id, owner)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Food diet record deleted successfully"})
}
