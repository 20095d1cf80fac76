package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type CreateAdminRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

type UpdateAdminRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type CampaignRequest struct {
	Title       string   `form:"title" json:"title"`
	Description string   `form:"description" json:"description"`
	GoalAmount  float64  `form:"goal_amount" json:"goal_amount"`
	ImageURL    *string  `form:"image_url" json:"image_url"`
	IsActive    *bool    `form:"is_active" json:"is_active"`
	EndDate     *string  `form:"end_date" json:"end_date"`
}

type CreateDonationRequest struct {
	CampaignID    int64   `json:"campaign_id"`
	Amount        float64 `json:"amount"`
	DonorName     *string `json:"donor_name"`
	DonorEmail    *string `json:"donor_email"`
	IsAnonymous   bool    `json:"is_anonymous"`
	PaymentMethod *string `json:"payment_method"`
}

type ReportRequest struct {
	CampaignID  int64   `form:"campaign_id" json:"campaign_id"`
	ExpenseDate string  `form:"expense_date" json:"expense_date"`
	Amount      float64 `form:"amount" json:"amount"`
	Description string  `form:"description" json:"description"`
	ReceiptURL  *string `form:"receipt_url" json:"receipt_url"`
	VendorName  *string `form:"vendor_name" json:"vendor_name"`
}

type GenerateHashRequest struct {
	Date string `json:"date"`
}

type ToggleVerificationRequest struct {
	Enabled bool `json:"enabled"`
}
