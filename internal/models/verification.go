package models

import "time"

// DailyHash is the published digest for one calendar day of completed
// donations. Regenerating for the same date overwrites the stored hash.
type DailyHash struct {
	Date              time.Time `json:"date" db:"date"`
	Hash              string    `json:"hash" db:"hash"`
	TransactionsCount int       `json:"transactions_count" db:"transactions_count"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Transaction is the digest input. Amount and Timestamp stay textual so the
// hash is computed over exactly what the export shows: the amount as the
// database renders it and the timestamp in UTC RFC3339.
type Transaction struct {
	ID         int64  `json:"id" db:"id"`
	Amount     string `json:"amount" db:"amount"`
	Timestamp  string `json:"timestamp" db:"timestamp"`
	CampaignID int64  `json:"campaign_id" db:"campaign_id"`
}
