package repository

import (
	"fmt"

	"donation-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type IVerificationRepository interface {
	ListTransactions(date string) ([]models.Transaction, error)
	UpsertDailyHash(date, hash string, count int) error
	GetDailyHash(date string) (*models.DailyHash, error)
	ListDailyHashes(limit int) ([]models.DailyHash, error)
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type VerificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) IVerificationRepository {
	return &VerificationRepository{db: db}
}

// ListTransactions returns the digest input for one day, ordered by id.
// Amount and timestamp are rendered in SQL so the hash input is identical
// no matter which Go version or driver scans the rows.
func (r *VerificationRepository) ListTransactions(date string) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	err := r.db.Select(&transactions, `
		SELECT id,
		       amount::text AS amount,
		       to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"') AS timestamp,
		       campaign_id
		FROM donations
		WHERE status = 'completed'
		  AND DATE(created_at) = $1::date
		ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", date, err)
	}
	return transactions, nil
}

func (r *VerificationRepository) UpsertDailyHash(date, hash string, count int) error {
	_, err := r.db.Exec(`
		INSERT INTO daily_hashes (date, hash, transactions_count)
		VALUES ($1::date, $2, $3)
		ON CONFLICT (date)
		DO UPDATE SET hash = EXCLUDED.hash,
		              transactions_count = EXCLUDED.transactions_count,
		              created_at = NOW()`, date, hash, count)
	if err != nil {
		return fmt.Errorf("failed to store daily hash for %s: %w", date, err)
	}
	return nil
}

func (r *VerificationRepository) GetDailyHash(date string) (*models.DailyHash, error) {
	var dailyHash models.DailyHash
	err := r.db.Get(&dailyHash, `
		SELECT date, hash, transactions_count, created_at
		FROM daily_hashes
		WHERE date = $1::date`, date)
	if err != nil {
		return nil, err
	}
	return &dailyHash, nil
}

func (r *VerificationRepository) ListDailyHashes(limit int) ([]models.DailyHash, error) {
	hashes := []models.DailyHash{}
	err := r.db.Select(&hashes, `
		SELECT date, hash, transactions_count, created_at
		FROM daily_hashes
		ORDER BY date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily hashes: %w", err)
	}
	return hashes, nil
}

func (r *VerificationRepository) GetSetting(key string) (string, error) {
	var value string
	err := r.db.Get(&value, "SELECT value FROM settings WHERE key = $1", key)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *VerificationRepository) SetSetting(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
