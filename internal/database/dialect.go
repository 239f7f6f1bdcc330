package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour spoken by the backing store.  Queries are
// written with '?' placeholders and rebound for Postgres.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
)

// DialectFor maps a DB_DRIVER value to a Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql", "pq":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return 0, fmt.Errorf("unsupported database driver %q", driver)
}

// DriverName is the name registered with database/sql.
func (d Dialect) DriverName() string {
	if d == MySQL {
		return "mysql"
	}
	return "postgres"
}

func (d Dialect) String() string { return d.DriverName() }

// SupportsReturning reports whether INSERT/UPDATE ... RETURNING is available.
func (d Dialect) SupportsReturning() bool { return d == Postgres }

// Rebind rewrites '?' placeholders into the dialect's native form.
func (d Dialect) Rebind(q string) string {
	if d != Postgres || !strings.Contains(q, "?") {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
