package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdkhajajamaludin/wellness/internal/database"
	"github.com/mdkhajajamaludin/wellness/internal/model"
)

// FoodDietRepo encapsulates all queries against food_diet_records.  It
// mirrors HealthcareRepo; only the column set differs.
type FoodDietRepo struct {
	t table
}

// NewFoodDietRepo constructs a FoodDietRepo for the given pool and dialect.
func NewFoodDietRepo(db *sql.DB, d database.Dialect) *FoodDietRepo {
	return &FoodDietRepo{t: table{
		db:      db,
		dialect: d,
		name:    database.TableFoodDiet,
		columns: []string{"id", "user_id", "meal_type", "food_name", "calories", "protein", "carbs", "fat", "notes", "created_at"},
	}}
}

func scanFoodDiet(s rowScanner) (*model.FoodDietRecord, error) {
	var r model.FoodDietRecord
	if err := s.Scan(&r.ID, &r.UserID, &r.MealType, &r.FoodName, &r.Calories, &r.Protein, &r.Carbs, &r.Fat, &r.Notes, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns food diet records matching f, newest first.
func (r *FoodDietRepo) List(ctx context.Context, f model.ListFilter) ([]*model.FoodDietRecord, error) {
	q, args := r.t.listQuery(f)
	out, err := queryAll(ctx, r.t.db, q, args, scanFoodDiet)
	if err != nil {
		return nil, fmt.Errorf("list food diet records: %w", err)
	}
	return out, nil
}

// Create inserts rec and returns the stored row with its id and created_at.
func (r *FoodDietRepo) Create(ctx context.Context, rec *model.FoodDietRecord) (*model.FoodDietRecord, error) {
	row, err := r.t.insert(ctx,
		[]string{"user_id", "meal_type", "food_name", "calories", "protein", "carbs", "fat", "notes"},
		nullable(rec.UserID), rec.MealType, rec.FoodName, nullableInt(rec.Calories),
		nullableFloat(rec.Protein), nullableFloat(rec.Carbs), nullableFloat(rec.Fat), nullable(rec.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("create food diet record: %w", err)
	}
	out, err := scanFoodDiet(row)
	if err != nil {
		return nil, fmt.Errorf("create food diet record: %w", err)
	}
	return out, nil
}

// DeleteByID removes the record regardless of owner and reports how many
// rows went.  A missing id is not an error.
func (r *FoodDietRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := r.t.exec(ctx, "DELETE FROM food_diet_records WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete food diet record %d: %w", id, err)
	}
	return n, nil
}

// DeleteByIDAndOwner removes the record only if it belongs to ownerID and
// returns ErrRecordNotFound when nothing matched.
func (r *FoodDietRepo) DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error {
	if ownerID == "" {
		return ErrRecordNotFound
	}
	n, err := r.t.exec(ctx, "DELETE FROM food_diet_records WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete food diet record %d: %w", id, err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
