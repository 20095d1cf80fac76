package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int64           `json:"id" db:"id"`
	AdminID      *int64          `json:"admin_id" db:"admin_id"`
	Action       AuditAction     `json:"action" db:"action"`
	ResourceType *string         `json:"resource_type" db:"resource_type"`
	ResourceID   *int64          `json:"resource_id" db:"resource_id"`
	OldValues    json.RawMessage `json:"old_values" db:"old_values"`
	NewValues    json.RawMessage `json:"new_values" db:"new_values"`
	IPAddress    *string         `json:"ip_address" db:"ip_address"`
	UserAgent    *string         `json:"user_agent" db:"user_agent"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	// Populated by the list queries via LEFT JOIN on admins.
	AdminEmail *string `json:"admin_email,omitempty" db:"admin_email"`
	AdminName  *string `json:"admin_name,omitempty" db:"admin_name"`
}

// AuditAction is the closed set of recordable actions.
type AuditAction string

const (
	ActionLoginSuccess   AuditAction = "LOGIN_SUCCESS"
	ActionLoginFailed    AuditAction = "LOGIN_FAILED"
	ActionPasswordChange AuditAction = "PASSWORD_CHANGE"

	ActionCreateCampaign AuditAction = "CREATE_CAMPAIGN"
	ActionUpdateCampaign AuditAction = "UPDATE_CAMPAIGN"
	ActionDeleteCampaign AuditAction = "DELETE_CAMPAIGN"

	ActionCreateDonation AuditAction = "CREATE_DONATION"

	ActionCreateReport AuditAction = "CREATE_REPORT"
	ActionUpdateReport AuditAction = "UPDATE_REPORT"
	ActionDeleteReport AuditAction = "DELETE_REPORT"

	ActionToggleVerification AuditAction = "TOGGLE_VERIFICATION"

	ActionCreateAdmin     AuditAction = "CREATE_ADMIN"
	ActionUpdateAdmin     AuditAction = "UPDATE_ADMIN"
	ActionDeactivateAdmin AuditAction = "DEACTIVATE_ADMIN"
)

// AuditLogFilter narrows the admin audit listing.
type AuditLogFilter struct {
	Action       string
	AdminID      *int64
	ResourceType string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	Limit        int
}

type AuditActionCount struct {
	Action string `json:"action" db:"action"`
	Count  int64  `json:"count" db:"count"`
}

type AuditAdminCount struct {
	Email        string  `json:"email" db:"email"`
	FullName     *string `json:"full_name" db:"full_name"`
	ActionsCount int64   `json:"actions_count" db:"actions_count"`
}

type AuditDailyCount struct {
	Date  time.Time `json:"date" db:"date"`
	Count int64     `json:"count" db:"count"`
}
