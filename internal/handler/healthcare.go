package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mdkhajajamaludin/wellness/internal/model"
	"github.com/mdkhajajamaludin/wellness/internal/queue"
	"github.com/mdkhajajamaludin/wellness/internal/repository"
)

// HealthcareStore is the persistence used by the healthcare endpoints.
type HealthcareStore interface {
	List(ctx context.Context, f model.ListFilter) ([]*model.HealthcareRecord, error)
	Create(ctx context.Context, rec *model.HealthcareRecord) (*model.HealthcareRecord, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error
}

// ListHealthcare handles GET /api/healthcare?user_id=
func (h *RecordHandler) ListHealthcare(c echo.Context) error {
	f, err := parseListFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	items, err := h.Healthcare.List(c.Request().Context(), f)
	if err != nil {
		return h.storeFailure(c, ResourceHealthcare, "list", err, "Failed to fetch healthcare records")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateHealthcare handles POST /api/healthcare.  type and value are required.
func (h *RecordHandler) CreateHealthcare(c echo.Context) error {
	var body struct {
		UserID *string   `json:"user_id"`
		Type   string    `json:"type"`
		Value  textValue `json:"value"`
		Unit   *string   `json:"unit"`
		Notes  *string   `json:"notes"`
	}
	if err := bindJSON(c, &body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !required(body.Type, string(body.Value)) {
		return badRequest(c, "type and value are required")
	}
	rec, err := h.Healthcare.Create(c.Request().Context(), &model.HealthcareRecord{
		UserID: body.UserID,
		Type:   body.Type,
		Value:  string(body.Value),
		Unit:   body.Unit,
		Notes:  body.Notes,
	})
	if err != nil {
		return h.storeFailure(c, ResourceHealthcare, "create", err, "Failed to create healthcare record")
	}
	h.emit(queue.EventCreated, ResourceHealthcare, rec.ID, deref(rec.UserID))
	return c.JSON(http.StatusCreated, rec)
}

// DeleteHealthcare handles DELETE /api/healthcare/:id.  Without ?user_id= the
// row is removed by id alone and a missing id still answers 200.  With it the
// delete is owner-scoped and a miss answers 404.
func (h *RecordHandler) DeleteHealthcare(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	owner := c.QueryParam("user_id")
	deleted := int64(1)
	if owner == "" {
		deleted, err = h.Healthcare.DeleteByID(ctx, id)
	} else {
		err = h.Healthcare.DeleteByIDAndOwner(ctx, id, owner)
	}
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Healthcare record not found or access denied"})
		}
		return h.storeFailure(c, ResourceHealthcare, "delete", err, "Failed to delete healthcare record")
	}
	if deleted > 0 {
		h.emit(queue.EventDeleted, ResourceHealthcare, id, owner)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Healthcare record deleted successfully"})
}
