package postgres

import (
	"fmt"
	"log"
	"time"

	"donation-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	adminDB, err := sqlx.Connect("postgres", adminDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer adminDB.Close()

	var exists bool
	err = adminDB.Get(&exists, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBname)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}
	if !exists {
		if _, err := adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.DBname)); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		log.Printf("created database %s", cfg.DBname)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.DBname, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func RetryConnectOnFailed(cfg config.PostgresConfig, attempts int, delay time.Duration) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	for i := 1; i <= attempts; i++ {
		db, err = ConnectAndCreateDB(cfg)
		if err == nil {
			return db, nil
		}
		log.Printf("database connection attempt %d/%d failed: %v", i, attempts, err)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}

// EnsureSchema creates all tables on startup. Statements are idempotent so a
// restart against an existing database is a no-op.
func EnsureSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255),
			role VARCHAR(50) NOT NULL DEFAULT 'admin',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			failed_login_attempts INTEGER NOT NULL DEFAULT 0,
			locked_until TIMESTAMPTZ,
			last_login TIMESTAMPTZ,
			last_login_ip VARCHAR(45),
			created_by BIGINT REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS campaigns (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			goal_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			current_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			end_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS donations (
			id BIGSERIAL PRIMARY KEY,
			campaign_id BIGINT NOT NULL REFERENCES campaigns(id),
			amount NUMERIC(12,2) NOT NULL,
			donor_name VARCHAR(255),
			donor_email_encrypted TEXT,
			is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
			payment_method VARCHAR(50) NOT NULL DEFAULT 'manual',
			status VARCHAR(50) NOT NULL DEFAULT 'completed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id BIGSERIAL PRIMARY KEY,
			campaign_id BIGINT NOT NULL REFERENCES campaigns(id),
			description TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			expense_date DATE NOT NULL,
			receipt_url TEXT,
			vendor_name VARCHAR(255),
			created_by BIGINT REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGSERIAL PRIMARY KEY,
			admin_id BIGINT REFERENCES admins(id),
			action VARCHAR(100) NOT NULL,
			resource_type VARCHAR(100),
			resource_id BIGINT,
			old_values JSONB,
			new_values JSONB,
			ip_address VARCHAR(45),
			user_agent TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS daily_hashes (
			id BIGSERIAL PRIMARY KEY,
			date DATE UNIQUE NOT NULL,
			hash VARCHAR(64) NOT NULL,
			transactions_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR(100) PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_campaign_id ON donations(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_admin_id ON audit_logs(admin_id)`,
		`INSERT INTO settings (key, value) VALUES ('verification_enabled', 'true') ON CONFLICT (key) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
