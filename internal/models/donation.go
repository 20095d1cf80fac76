package models

import "time"

type Donation struct {
	ID                  int64     `json:"id" db:"id"`
	CampaignID          int64     `json:"campaign_id" db:"campaign_id"`
	Amount              float64   `json:"amount" db:"amount"`
	DonorName           *string   `json:"donor_name" db:"donor_name"`
	DonorEmailEncrypted *string   `json:"-" db:"donor_email_encrypted"`
	IsAnonymous         bool      `json:"is_anonymous" db:"is_anonymous"`
	PaymentMethod       string    `json:"payment_method" db:"payment_method"`
	Status              string    `json:"status" db:"status"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`

	CampaignTitle string `json:"campaign_title,omitempty" db:"campaign_title"`

	// Decrypted for admin listings only, never persisted.
	DonorEmail *string `json:"donor_email,omitempty" db:"-"`
}

const (
	DonationStatusCompleted = "completed"

	PaymentMethodManual = "manual"
	PaymentMethodCard   = "card"
)

// DonationStatistics aggregates over completed donations.
type DonationStatistics struct {
	TotalAmount    float64 `json:"total_amount" db:"total_amount"`
	UniqueDonors   int64   `json:"unique_donors" db:"unique_donors"`
	TotalDonations int64   `json:"total_donations" db:"total_donations"`
}
