package models

import "time"

type Report struct {
	ID          int64     `json:"id" db:"id"`
	CampaignID  int64     `json:"campaign_id" db:"campaign_id"`
	ExpenseDate time.Time `json:"expense_date" db:"expense_date"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	ReceiptURL  *string   `json:"receipt_url" db:"receipt_url"`
	VendorName  *string   `json:"vendor_name" db:"vendor_name"`
	CreatedBy   *int64    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	CampaignTitle string `json:"campaign_title,omitempty" db:"campaign_title"`
}
