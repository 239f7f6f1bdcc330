package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mdkhajajamaludin/wellness/internal/database"
	"github.com/mdkhajajamaludin/wellness/internal/model"
)

// NoteRepo encapsulates all queries against the notes table.  Every mutation
// is scoped by both id and owner; an empty owner id never matches, so notes
// stored without an owner can only be removed by DeleteOrphans.
type NoteRepo struct {
	t table
}

// NewNoteRepo constructs a NoteRepo for the given pool and dialect.
func NewNoteRepo(db *sql.DB, d database.Dialect) *NoteRepo {
	return &NoteRepo{t: table{
		db:      db,
		dialect: d,
		name:    database.TableNotes,
		columns: []string{"id", "user_id", "title", "content", "created_at", "updated_at"},
	}}
}

func scanNote(s rowScanner) (*model.Note, error) {
	var n model.Note
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns notes matching f, newest first.
func (r *NoteRepo) List(ctx context.Context, f model.ListFilter) ([]*model.Note, error) {
	q, args := r.t.listQuery(f)
	out, err := queryAll(ctx, r.t.db, q, args, scanNote)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return out, nil
}

// Create inserts n and returns the stored note.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) (*model.Note, error) {
	row, err := r.t.insert(ctx, []string{"user_id", "title", "content"},
		nullable(n.UserID), n.Title, nullable(n.Content))
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	out, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return out, nil
}

// GetByIDAndOwner fetches a note only if it belongs to ownerID.
func (r *NoteRepo) GetByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Note, error) {
	if ownerID == "" {
		return nil, ErrNoteNotFound
	}
	q := r.t.dialect.Rebind("SELECT " + r.t.selectList() + " FROM notes WHERE id = ? AND user_id = ?")
	n, err := scanNote(r.t.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note %d: %w", id, err)
	}
	return n, nil
}

// UpdateByIDAndOwner replaces title and content and bumps updated_at in a
// single conditional statement.  ErrNoteNotFound means the note is missing
// or owned by someone else.
//
// Without RETURNING (MySQL) the row is re-read after the update with the same
// owner scope, so a delete racing in between surfaces as ErrNoteNotFound
// instead of a stale row.
func (r *NoteRepo) UpdateByIDAndOwner(ctx context.Context, id int64, ownerID, title string, content *string) (*model.Note, error) {
	if ownerID == "" {
		return nil, ErrNoteNotFound
	}
	q := "UPDATE notes SET title = ?, content = ?, updated_at = " + r.t.now() + " WHERE id = ? AND user_id = ?"
	args := []any{title, nullable(content), id, ownerID}

	if r.t.dialect.SupportsReturning() {
		row := r.t.db.QueryRowContext(ctx, r.t.dialect.Rebind(q+" RETURNING "+r.t.selectList()), args...)
		n, err := scanNote(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNoteNotFound
			}
			return nil, fmt.Errorf("update note %d: %w", id, err)
		}
		return n, nil
	}

	affected, err := r.t.exec(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}
	if affected == 0 {
		return nil, ErrNoteNotFound
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// DeleteByIDAndOwner removes the note if it belongs to ownerID.
func (r *NoteRepo) DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error {
	if ownerID == "" {
		return ErrNoteNotFound
	}
	n, err := r.t.exec(ctx, "DELETE FROM notes WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

const orphanWhere = "user_id IS NULL OR user_id = ''"

// CountOrphans returns how many notes have no owner id.
func (r *NoteRepo) CountOrphans(ctx context.Context) (int64, error) {
	var n int64
	if err := r.t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes WHERE "+orphanWhere).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orphan notes: %w", err)
	}
	return n, nil
}

// DeleteOrphans removes every note with a NULL or empty owner id and returns
// the number of rows deleted.
func (r *NoteRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	n, err := r.t.exec(ctx, "DELETE FROM notes WHERE "+orphanWhere)
	if err != nil {
		return 0, fmt.Errorf("delete orphan notes: %w", err)
	}
	return n, nil
}

// Count returns the total number of notes.
func (r *NoteRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}
