package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Open connects to the database for the given driver and verifies the
// connection.  MySQL DSNs are normalized so DATETIME columns scan into
// time.Time in UTC and UPDATE reports matched rather than changed rows.
func Open(driver, dsn string) (*sql.DB, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if d == MySQL {
		if dsn, err = normalizeMySQLDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	return db, nil
}

func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}
