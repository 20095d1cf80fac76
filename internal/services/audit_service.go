package services

import (
	"encoding/json"
	"log"

	"donation-service/internal/models"
	"donation-service/internal/repository"
)

// sensitiveFields never reach the audit trail in clear text.
var sensitiveFields = []string{"password", "password_hash", "token", "new_password", "old_password"}

type AuditEntry struct {
	AdminID      *int64
	Action       models.AuditAction
	ResourceType string
	ResourceID   *int64
	OldValues    map[string]any
	NewValues    map[string]any
	IPAddress    string
	UserAgent    string
}

type AuditStats struct {
	PeriodDays int                       `json:"period_days"`
	ByAction   []models.AuditActionCount `json:"by_action"`
	ByAdmin    []models.AuditAdminCount  `json:"by_admin"`
	ByDay      []models.AuditDailyCount  `json:"by_day"`
}

type AuditService struct {
	repo repository.IAuditRepository
}

func NewAuditService(repo repository.IAuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record writes one audit entry. It never returns an error: a broken audit
// pipeline must not fail the admin action it describes, so failures only land
// in the server log.
func (s *AuditService) Record(entry AuditEntry) {
	auditLog := &models.AuditLog{
		AdminID:    entry.AdminID,
		Action:     entry.Action,
		ResourceID: entry.ResourceID,
		OldValues:  marshalSnapshot(entry.OldValues),
		NewValues:  marshalSnapshot(entry.NewValues),
	}
	if entry.ResourceType != "" {
		auditLog.ResourceType = &entry.ResourceType
	}
	if entry.IPAddress != "" {
		auditLog.IPAddress = &entry.IPAddress
	}
	if entry.UserAgent != "" {
		auditLog.UserAgent = &entry.UserAgent
	}

	if err := s.repo.Insert(auditLog); err != nil {
		log.Printf("audit record failed for action %s: %v", entry.Action, err)
	}
}

func (s *AuditService) List(filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return s.repo.List(filter)
}

// Stats aggregates activity over the last N days, clamped to 1..365.
func (s *AuditService) Stats(days int) (*AuditStats, error) {
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	byAction, err := s.repo.CountByAction(days)
	if err != nil {
		return nil, err
	}
	byAdmin, err := s.repo.CountByAdmin(days)
	if err != nil {
		return nil, err
	}
	byDay, err := s.repo.CountByDay(days)
	if err != nil {
		return nil, err
	}

	return &AuditStats{
		PeriodDays: days,
		ByAction:   byAction,
		ByAdmin:    byAdmin,
		ByDay:      byDay,
	}, nil
}

func marshalSnapshot(values map[string]any) json.RawMessage {
	if values == nil {
		return nil
	}
	data, err := json.Marshal(SanitizeForLog(values))
	if err != nil {
		log.Printf("failed to marshal audit snapshot: %v", err)
		return nil
	}
	return data
}

// SanitizeForLog replaces credential-bearing fields with a marker. The copy
// is shallow on purpose: snapshots are flat maps of column values.
func SanitizeForLog(values map[string]any) map[string]any {
	sanitized := make(map[string]any, len(values))
	for k, v := range values {
		sanitized[k] = v
	}
	for _, field := range sensitiveFields {
		if _, ok := sanitized[field]; ok {
			sanitized[field] = "[REDACTED]"
		}
	}
	return sanitized
}
