package repository

import (
	"fmt"

	"donation-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type IReportRepository interface {
	Create(report *models.Report) error
	GetByID(id int64) (*models.Report, error)
	ListPublic() ([]models.Report, error)
	ListByCampaign(campaignID int64) ([]models.Report, error)
	Update(report *models.Report) error
	Delete(id int64) error
}

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) IReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(report *models.Report) error {
	query := `
		INSERT INTO reports (campaign_id, description, amount, expense_date,
		                     receipt_url, vendor_name, created_by)
		VALUES (:campaign_id, :description, :amount, :expense_date,
		        :receipt_url, :vendor_name, :created_by)
		RETURNING id, created_at`

	rows, err := r.db.NamedQuery(query, report)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&report.ID, &report.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan created report: %w", err)
		}
	}
	return nil
}

func (r *ReportRepository) GetByID(id int64) (*models.Report, error) {
	var report models.Report
	err := r.db.Get(&report, `
		SELECT r.*, c.title AS campaign_title
		FROM reports r
		LEFT JOIN campaigns c ON c.id = r.campaign_id
		WHERE r.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) ListPublic() ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.Select(&reports, `
		SELECT r.*, c.title AS campaign_title
		FROM reports r
		LEFT JOIN campaigns c ON c.id = r.campaign_id
		ORDER BY r.expense_date DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) ListByCampaign(campaignID int64) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.Select(&reports, `
		SELECT r.*, c.title AS campaign_title
		FROM reports r
		LEFT JOIN campaigns c ON c.id = r.campaign_id
		WHERE r.campaign_id = $1
		ORDER BY r.expense_date DESC, r.id DESC`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign reports: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) Update(report *models.Report) error {
	query := `
		UPDATE reports
		SET campaign_id = :campaign_id, description = :description, amount = :amount,
		    expense_date = :expense_date, receipt_url = :receipt_url,
		    vendor_name = :vendor_name, updated_at = NOW()
		WHERE id = :id`

	result, err := r.db.NamedExec(query, report)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("report not found")
	}
	return nil
}

func (r *ReportRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("report not found")
	}
	return nil
}
