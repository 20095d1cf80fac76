package repository

import (
	"fmt"

	"donation-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type IDonationRepository interface {
	Create(donation *models.Donation) error
	GetByID(id int64) (*models.Donation, error)
	ListRecent(limit int) ([]models.Donation, error)
	ListAll(page, limit int) ([]models.Donation, int, error)
	Statistics() (*models.DonationStatistics, error)
}

type DonationRepository struct {
	db *sqlx.DB
}

func NewDonationRepository(db *sqlx.DB) IDonationRepository {
	return &DonationRepository{db: db}
}

// Create inserts the donation and bumps the campaign total in one
// transaction, so the public progress bar never drifts from the ledger.
func (r *DonationRepository) Create(donation *models.Donation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO donations (campaign_id, amount, donor_name, donor_email_encrypted,
		                       is_anonymous, payment_method, status)
		VALUES (:campaign_id, :amount, :donor_name, :donor_email_encrypted,
		        :is_anonymous, :payment_method, :status)
		RETURNING id, created_at`

	rows, err := tx.NamedQuery(query, donation)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&donation.ID, &donation.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan created donation: %w", err)
		}
	}
	rows.Close()

	_, err = tx.Exec(
		"UPDATE campaigns SET current_amount = current_amount + $1, updated_at = NOW() WHERE id = $2",
		donation.Amount, donation.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to update campaign amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit donation: %w", err)
	}
	return nil
}

func (r *DonationRepository) GetByID(id int64) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.Get(&donation, "SELECT * FROM donations WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepository) ListRecent(limit int) ([]models.Donation, error) {
	donations := []models.Donation{}
	err := r.db.Select(&donations, `
		SELECT d.id, d.campaign_id, d.amount, d.donor_name, d.is_anonymous,
		       d.payment_method, d.status, d.created_at,
		       c.title AS campaign_title
		FROM donations d
		LEFT JOIN campaigns c ON c.id = d.campaign_id
		ORDER BY d.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent donations: %w", err)
	}
	return donations, nil
}

func (r *DonationRepository) ListAll(page, limit int) ([]models.Donation, int, error) {
	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM donations"); err != nil {
		return nil, 0, fmt.Errorf("failed to count donations: %w", err)
	}

	donations := []models.Donation{}
	err := r.db.Select(&donations, `
		SELECT d.*, c.title AS campaign_title
		FROM donations d
		LEFT JOIN campaigns c ON c.id = d.campaign_id
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, total, nil
}

func (r *DonationRepository) Statistics() (*models.DonationStatistics, error) {
	var stats models.DonationStatistics
	err := r.db.Get(&stats, `
		SELECT COALESCE(SUM(amount), 0) AS total_amount,
		       COUNT(DISTINCT donor_name) FILTER (WHERE NOT is_anonymous AND donor_name IS NOT NULL) AS unique_donors,
		       COUNT(*) AS total_donations
		FROM donations
		WHERE status = 'completed'`)
	if err != nil {
		return nil, fmt.Errorf("failed to load donation statistics: %w", err)
	}
	return &stats, nil
}
