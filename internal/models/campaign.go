package models

import "time"

type Campaign struct {
	ID            int64      `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	GoalAmount    float64    `json:"goal_amount" db:"goal_amount"`
	CurrentAmount float64    `json:"current_amount" db:"current_amount"`
	ImageURL      *string    `json:"image_url" db:"image_url"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	EndDate       *time.Time `json:"end_date" db:"end_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	// Derived, set before the campaign is serialized.
	Progress int `json:"progress_percentage" db:"-"`
}

// ProgressPercentage rounds to whole percents, 0 when no goal is set.
func (c *Campaign) ProgressPercentage() int {
	if c.GoalAmount <= 0 {
		return 0
	}
	return int(c.CurrentAmount*100/c.GoalAmount + 0.5)
}
