package repository

import (
	"fmt"

	"donation-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type ICampaignRepository interface {
	Create(campaign *models.Campaign) error
	GetByID(id int64) (*models.Campaign, error)
	ListActive() ([]models.Campaign, error)
	ListAll() ([]models.Campaign, error)
	Update(campaign *models.Campaign) error
	Delete(id int64) error
	CountDonations(id int64) (int, error)
}

type CampaignRepository struct {
	db *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) ICampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (title, description, goal_amount, image_url, is_active, end_date)
		VALUES (:title, :description, :goal_amount, :image_url, :is_active, :end_date)
		RETURNING id, current_amount, created_at, updated_at`

	rows, err := r.db.NamedQuery(query, campaign)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&campaign.ID, &campaign.CurrentAmount, &campaign.CreatedAt, &campaign.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan created campaign: %w", err)
		}
	}
	return nil
}

func (r *CampaignRepository) GetByID(id int64) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Get(&campaign, "SELECT * FROM campaigns WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepository) ListActive() ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	err := r.db.Select(&campaigns,
		"SELECT * FROM campaigns WHERE is_active = TRUE ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *CampaignRepository) ListAll() ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	err := r.db.Select(&campaigns, "SELECT * FROM campaigns ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *CampaignRepository) Update(campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = :title, description = :description, goal_amount = :goal_amount,
		    image_url = :image_url, is_active = :is_active, end_date = :end_date,
		    updated_at = NOW()
		WHERE id = :id`

	result, err := r.db.NamedExec(query, campaign)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("campaign not found")
	}
	return nil
}

func (r *CampaignRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM campaigns WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("campaign not found")
	}
	return nil
}

func (r *CampaignRepository) CountDonations(id int64) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM donations WHERE campaign_id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("failed to count campaign donations: %w", err)
	}
	return count, nil
}
