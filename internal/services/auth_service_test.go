package services

import (
	"errors"
	"testing"
	"time"

	"donation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestAuthService(repo *fakeAdminRepo) (*AuthService, *fakeAuditRepo) {
	auditRepo := &fakeAuditRepo{}
	audit := NewAuditService(auditRepo)
	jwt := NewJWTService("test-signing-secret")
	return NewAuthService(repo, jwt, audit), auditRepo
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, auditRepo := newTestAuthService(repo)

	loggedIn, token, err := service.Login("admin@example.com", "Correct1Pass", "10.0.0.1", "test-agent")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, admin.ID, loggedIn.ID)
	assert.Contains(t, auditRepo.actionsRecorded(), models.ActionLoginSuccess)

	stored := repo.admins[admin.ID]
	assert.NotNil(t, stored.LastLogin)
	assert.Equal(t, "10.0.0.1", *stored.LastLoginIP)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeAdminRepo()
	service, auditRepo := newTestAuthService(repo)

	_, _, err := service.Login("nobody@example.com", "whatever", "10.0.0.1", "test-agent")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	var credentials *CredentialsError
	assert.ErrorAs(t, err, &credentials)
	assert.Equal(t, -1, credentials.AttemptsRemaining)
	assert.Contains(t, auditRepo.actionsRecorded(), models.ActionLoginFailed)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, false)
	service, _ := newTestAuthService(repo)

	_, _, err := service.Login("admin@example.com", "Correct1Pass", "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestLoginWrongPasswordCountsAttempts(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, _ := newTestAuthService(repo)

	_, _, err := service.Login("admin@example.com", "wrong", "10.0.0.1", "test-agent")

	var credentials *CredentialsError
	assert.ErrorAs(t, err, &credentials)
	assert.Equal(t, 4, credentials.AttemptsRemaining)
	assert.Equal(t, 1, repo.admins[admin.ID].FailedLoginAttempts)
}

func TestLoginLocksAfterFiveFailures(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, _ := newTestAuthService(repo)

	var err error
	for i := 0; i < 5; i++ {
		_, _, err = service.Login("admin@example.com", "wrong", "10.0.0.1", "test-agent")
	}

	var locked *LockedError
	assert.ErrorAs(t, err, &locked)
	assert.InDelta(t, 30, locked.RemainingMinutes(), 1)
	assert.NotNil(t, repo.admins[admin.ID].LockedUntil)
}

func TestLoginRejectsCorrectPasswordWhileLocked(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	until := time.Now().Add(15 * time.Minute)
	repo.admins[admin.ID].LockedUntil = &until
	repo.admins[admin.ID].FailedLoginAttempts = 5
	service, _ := newTestAuthService(repo)

	_, _, err := service.Login("admin@example.com", "Correct1Pass", "10.0.0.1", "test-agent")

	var locked *LockedError
	assert.ErrorAs(t, err, &locked)
	assert.LessOrEqual(t, locked.RemainingMinutes(), 15)
}

func TestLoginAfterLockExpires(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	until := time.Now().Add(-time.Minute)
	repo.admins[admin.ID].LockedUntil = &until
	repo.admins[admin.ID].FailedLoginAttempts = 5
	service, _ := newTestAuthService(repo)

	_, token, err := service.Login("admin@example.com", "Correct1Pass", "10.0.0.1", "test-agent")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 0, repo.admins[admin.ID].FailedLoginAttempts)
	assert.Nil(t, repo.admins[admin.ID].LockedUntil)
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, _ := newTestAuthService(repo)

	for i := 0; i < 3; i++ {
		_, _, _ = service.Login("admin@example.com", "wrong", "10.0.0.1", "test-agent")
	}
	assert.Equal(t, 3, repo.admins[admin.ID].FailedLoginAttempts)

	_, _, err := service.Login("admin@example.com", "Correct1Pass", "10.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.Equal(t, 0, repo.admins[admin.ID].FailedLoginAttempts)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, auditRepo := newTestAuthService(repo)

	err := service.ChangePassword(admin.ID, "Correct1Pass", "NewSecret9!", "10.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.True(t, repo.CheckPasswordHash("NewSecret9!", repo.admins[admin.ID].PasswordHash))
	assert.Contains(t, auditRepo.actionsRecorded(), models.ActionPasswordChange)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, _ := newTestAuthService(repo)

	err := service.ChangePassword(admin.ID, "not-the-password", "NewSecret9!", "10.0.0.1", "test-agent")
	assert.True(t, errors.Is(err, ErrWrongPassword))
}

func TestChangePasswordRejectsWeak(t *testing.T) {
	repo := newFakeAdminRepo()
	admin := repo.addAdmin("admin@example.com", "Correct1Pass", models.RoleAdmin, true)
	service, _ := newTestAuthService(repo)

	err := service.ChangePassword(admin.ID, "Correct1Pass", "short", "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
