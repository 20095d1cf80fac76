package services

import (
	"testing"

	"donation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	input := map[string]any{
		"email":        "admin@example.com",
		"password":     "Secret123",
		"new_password": "Secret456",
		"old_password": "Secret789",
		"token":        "eyJhbGciOi...",
		"full_name":    "Test Admin",
	}

	sanitized := SanitizeForLog(input)

	assert.Equal(t, "[REDACTED]", sanitized["password"])
	assert.Equal(t, "[REDACTED]", sanitized["new_password"])
	assert.Equal(t, "[REDACTED]", sanitized["old_password"])
	assert.Equal(t, "[REDACTED]", sanitized["token"])
	assert.Equal(t, "admin@example.com", sanitized["email"])
	assert.Equal(t, "Test Admin", sanitized["full_name"])

	// Input map stays untouched.
	assert.Equal(t, "Secret123", input["password"])
}

func TestRecordNeverFails(t *testing.T) {
	auditRepo := &fakeAuditRepo{failInsert: true}
	service := NewAuditService(auditRepo)

	adminID := int64(1)
	assert.NotPanics(t, func() {
		service.Record(AuditEntry{
			AdminID: &adminID,
			Action:  models.ActionLoginSuccess,
		})
	})
	assert.Empty(t, auditRepo.entries)
}

func TestRecordStoresSanitizedSnapshot(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	service := NewAuditService(auditRepo)

	adminID := int64(1)
	service.Record(AuditEntry{
		AdminID:      &adminID,
		Action:       models.ActionPasswordChange,
		ResourceType: "admin",
		NewValues:    map[string]any{"password": "Secret123", "email": "a@b.co"},
		IPAddress:    "10.0.0.1",
	})

	assert.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, models.ActionPasswordChange, entry.Action)
	assert.NotContains(t, string(entry.NewValues), "Secret123")
	assert.Contains(t, string(entry.NewValues), "[REDACTED]")
	assert.Equal(t, "10.0.0.1", *entry.IPAddress)
}

func TestStatsClampsDays(t *testing.T) {
	service := NewAuditService(&fakeAuditRepo{})

	stats, err := service.Stats(0)
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.PeriodDays)

	stats, err = service.Stats(9000)
	assert.NoError(t, err)
	assert.Equal(t, 365, stats.PeriodDays)

	stats, err = service.Stats(30)
	assert.NoError(t, err)
	assert.Equal(t, 30, stats.PeriodDays)
}
