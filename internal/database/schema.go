package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names shared with the repositories.
const (
	TableHealthcare = "healthcare_records"
	TableFoodDiet   = "food_diet_records"
	TableNotes      = "notes"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS healthcare_records (
		id SERIAL PRIMARY KEY,
		user_id VARCHAR(255),
		type VARCHAR(100) NOT NULL,
		value VARCHAR(255) NOT NULL,
		unit VARCHAR(50),
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS food_diet_records (
		id SERIAL PRIMARY KEY,
		user_id VARCHAR(255),
		meal_type VARCHAR(50) NOT NULL,
		food_name VARCHAR(255) NOT NULL,
		calories INTEGER,
		protein DECIMAL(5,2),
		carbs DECIMAL(5,2),
		fat DECIMAL(5,2),
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id SERIAL PRIMARY KEY,
		user_id VARCHAR(255),
		title VARCHAR(255) NOT NULL,
		content TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS healthcare_records (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(255) NULL,
		type VARCHAR(100) NOT NULL,
		value VARCHAR(255) NOT NULL,
		unit VARCHAR(50) NULL,
		notes TEXT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_healthcare_user_created (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS food_diet_records (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(255) NULL,
		meal_type VARCHAR(50) NOT NULL,
		food_name VARCHAR(255) NOT NULL,
		calories INT NULL,
		protein DECIMAL(5,2) NULL,
		carbs DECIMAL(5,2) NULL,
		fat DECIMAL(5,2) NULL,
		notes TEXT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_food_diet_user_created (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS notes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(255) NULL,
		title VARCHAR(255) NOT NULL,
		content TEXT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_notes_user_created (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Schema returns the idempotent DDL statements for the dialect.
func Schema(d Dialect) []string {
	if d == MySQL {
		return mysqlSchema
	}
	return postgresSchema
}

// EnsureSchema creates any missing tables.  It stops at the first failing
// statement; callers decide whether that is fatal (the server is not).
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range Schema(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
