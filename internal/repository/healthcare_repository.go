package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdkhajajamaludin/wellness/internal/database"
	"github.com/mdkhajajamaludin/wellness/internal/model"
)

// HealthcareRepo encapsulates all queries against healthcare_records.
type HealthcareRepo struct {
	t table
}

// NewHealthcareRepo constructs a HealthcareRepo for the given pool and dialect.
func NewHealthcareRepo(db *sql.DB, d database.Dialect) *HealthcareRepo {
	return &HealthcareRepo{t: table{
		db:      db,
		dialect: d,
		name:    database.TableHealthcare,
		columns: []string{"id", "user_id", "type", "value", "unit", "notes", "created_at"},
	}}
}

func scanHealthcare(s rowScanner) (*model.HealthcareRecord, error) {
	var r model.HealthcareRecord
	if err := s.Scan(&r.ID, &r.UserID, &r.Type, &r.Value, &r.Unit, &r.Notes, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns records matching f, newest first.
func (r *HealthcareRepo) List(ctx context.Context, f model.ListFilter) ([]*model.HealthcareRecord, error) {
	q, args := r.t.listQuery(f)
	out, err := queryAll(ctx, r.t.db, q, args, scanHealthcare)
	if err != nil {
		return nil, fmt.Errorf("list healthcare records: %w", err)
	}
	return out, nil
}

// Create inserts rec and returns the stored row with its id and created_at.
func (r *HealthcareRepo) Create(ctx context.Context, rec *model.HealthcareRecord) (*model.HealthcareRecord, error) {
	row, err := r.t.insert(ctx,
		[]string{"user_id", "type", "value", "unit", "notes"},
		nullable(rec.UserID), rec.Type, rec.Value, nullable(rec.Unit), nullable(rec.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("create healthcare record: %w", err)
	}
	out, err := scanHealthcare(row)
	if err != nil {
		return nil, fmt.Errorf("create healthcare record: %w", err)
	}
	return out, nil
}

// DeleteByID removes the record regardless of owner and reports how many
// rows went.  A missing id is not an error.
func (r *HealthcareRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := r.t.exec(ctx, "DELETE FROM healthcare_records WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete healthcare record %d: %w", id, err)
	}
	return n, nil
}

// DeleteByIDAndOwner removes the record only if it belongs to ownerID and
// returns ErrRecordNotFound when nothing matched.
func (r *HealthcareRepo) DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error {
	if ownerID == "" {
		return ErrRecordNotFound
	}
	n, err := r.t.exec(ctx, "DELETE FROM healthcare_records WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete healthcare record %d: %w", id, err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
