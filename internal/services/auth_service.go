package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donation-service/internal/models"
	"donation-service/internal/repository"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 30 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// CredentialsError is a failed password check. AttemptsRemaining is -1 when
// the account does not exist, so the response cannot be used to probe emails.
type CredentialsError struct {
	AttemptsRemaining int
}

func (e *CredentialsError) Error() string { return ErrInvalidCredentials.Error() }

func (e *CredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// LockedError reports an account under brute-force lockout.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d minutes", e.RemainingMinutes())
}

// RemainingMinutes rounds up so the message never promises an earlier retry
// than the lock allows.
func (e *LockedError) RemainingMinutes() int {
	remaining := time.Until(e.Until)
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

type AuthService struct {
	adminRepo repository.IAdminRepository
	jwt       *JWTService
	audit     *AuditService
}

func NewAuthService(adminRepo repository.IAdminRepository, jwt *JWTService, audit *AuditService) *AuthService {
	return &AuthService{adminRepo: adminRepo, jwt: jwt, audit: audit}
}

// Login runs the credential check and the lockout state machine. Five failed
// attempts lock the account for thirty minutes; the lock is checked before
// the password, so even the correct password is rejected while it holds.
func (s *AuthService) Login(email, password, ip, userAgent string) (*models.Admin, string, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordLoginFailed(nil, email, "unknown email", ip, userAgent)
			return nil, "", &CredentialsError{AttemptsRemaining: -1}
		}
		return nil, "", fmt.Errorf("failed to load admin: %w", err)
	}

	if admin.LockedUntil != nil && admin.LockedUntil.After(time.Now()) {
		s.recordLoginFailed(&admin.ID, email, "account_locked", ip, userAgent)
		return nil, "", &LockedError{Until: *admin.LockedUntil}
	}

	if !admin.IsActive {
		s.recordLoginFailed(&admin.ID, email, "deactivated", ip, userAgent)
		return nil, "", ErrAccountDeactivated
	}

	if !s.adminRepo.CheckPasswordHash(password, admin.PasswordHash) {
		attempts, err := s.adminRepo.RecordFailedAttempt(admin.ID)
		if err != nil {
			return nil, "", err
		}
		locked := attempts >= maxLoginAttempts
		s.audit.Record(AuditEntry{
			AdminID:      &admin.ID,
			Action:       models.ActionLoginFailed,
			ResourceType: "admin",
			ResourceID:   &admin.ID,
			NewValues: map[string]any{
				"email":    email,
				"reason":   "wrong_password",
				"attempts": attempts,
				"locked":   locked,
			},
			IPAddress: ip,
			UserAgent: userAgent,
		})
		if locked {
			until := time.Now().Add(lockoutDuration)
			if err := s.adminRepo.LockAccount(admin.ID, until); err != nil {
				return nil, "", err
			}
			return nil, "", &LockedError{Until: until}
		}
		return nil, "", &CredentialsError{AttemptsRemaining: maxLoginAttempts - attempts}
	}

	if err := s.adminRepo.ResetLoginState(admin.ID, ip); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(admin)
	if err != nil {
		return nil, "", err
	}

	s.audit.Record(AuditEntry{
		AdminID:      &admin.ID,
		Action:       models.ActionLoginSuccess,
		ResourceType: "admin",
		ResourceID:   &admin.ID,
		NewValues:    map[string]any{"email": admin.Email},
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return admin, token, nil
}

func (s *AuthService) ChangePassword(adminID int64, oldPassword, newPassword, ip, userAgent string) error {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWrongPassword
		}
		return fmt.Errorf("failed to load admin: %w", err)
	}

	if !s.adminRepo.CheckPasswordHash(oldPassword, admin.PasswordHash) {
		return ErrWrongPassword
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.adminRepo.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.adminRepo.UpdatePassword(adminID, hash); err != nil {
		return err
	}

	s.audit.Record(AuditEntry{
		AdminID:      &admin.ID,
		Action:       models.ActionPasswordChange,
		ResourceType: "admin",
		ResourceID:   &admin.ID,
		NewValues:    map[string]any{"password": newPassword},
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return nil
}

func (s *AuthService) recordLoginFailed(adminID *int64, email, reason, ip, userAgent string) {
	s.audit.Record(AuditEntry{
		AdminID:      adminID,
		Action:       models.ActionLoginFailed,
		ResourceType: "admin",
		ResourceID:   adminID,
		NewValues:    map[string]any{"email": email, "reason": reason},
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
}
