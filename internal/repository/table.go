package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mdkhajajamaludin/wellness/internal/database"
	"github.com/mdkhajajamaludin/wellness/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table holds what every repository needs to build its statements: the
// pool, the dialect, the table name and the column list returned to callers.
type table struct {
	db      *sql.DB
	dialect database.Dialect
	name    string
	columns []string
}

func (t table) selectList() string { return strings.Join(t.columns, ", ") }

// insert writes one row and returns a scanner positioned on the stored row,
// including server generated id and timestamps.  Postgres does this in one
// statement with RETURNING; MySQL needs a follow-up SELECT by the new id.
func (t table) insert(ctx context.Context, cols []string, args ...any) (rowScanner, error) {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(cols, ", "), marks)
	if t.dialect.SupportsReturning() {
		q += " RETURNING " + t.selectList()
		return t.db.QueryRowContext(ctx, t.dialect.Rebind(q), args...), nil
	}
	res, err := t.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", t.selectList(), t.name), id), nil
}

// listQuery builds the SELECT for a listing.  Rows come back newest first;
// id breaks ties between rows created within the same clock tick.
func (t table) listQuery(f model.ListFilter) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	fmt.Fprintf(&b, "SELECT %s FROM %s", t.selectList(), t.name)
	if f.UserID != "" {
		b.WriteString(" WHERE user_id = ?")
		args = append(args, f.UserID)
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, f.Limit, f.Offset)
	}
	return t.dialect.Rebind(b.String()), args
}

// exec runs a statement and returns the number of affected rows.
func (t table) exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := t.db.ExecContext(ctx, t.dialect.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// now is the dialect's current-timestamp expression at column precision.
func (t table) now() string {
	if t.dialect == database.MySQL {
		return "CURRENT_TIMESTAMP(6)"
	}
	return "CURRENT_TIMESTAMP"
}

// queryAll runs q and scans every row with scan.  The result is never nil so
// an empty listing encodes as [] rather than null.
func queryAll[T any](ctx context.Context, db *sql.DB, q string, args []any, scan func(rowScanner) (*T, error)) ([]*T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// nullable maps an absent optional field to SQL NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
