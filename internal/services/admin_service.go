package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"donation-service/internal/models"
	"donation-service/internal/repository"
	"donation-service/utils"
)

var (
	ErrAdminNotFound    = errors.New("admin not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrInvalidRole      = errors.New("invalid role")
	ErrLastSuperAdmin   = errors.New("cannot remove the last active super admin")
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
	ErrWeakPassword     = errors.New("password must be at least 8 characters and contain uppercase, lowercase, digit and special characters")
)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// ValidatePassword enforces the minimum complexity for admin accounts.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

type AdminService struct {
	adminRepo repository.IAdminRepository
	audit     *AuditService
}

func NewAdminService(adminRepo repository.IAdminRepository, audit *AuditService) *AdminService {
	return &AdminService{adminRepo: adminRepo, audit: audit}
}

func (s *AdminService) List() ([]models.Admin, error) {
	return s.adminRepo.List()
}

func (s *AdminService) GetByID(id int64) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return admin, nil
}

func (s *AdminService) Create(actorID int64, req models.CreateAdminRequest, ip, userAgent string) (*models.Admin, error) {
	role := models.AdminRole(req.Role)
	if req.Role == "" {
		role = models.RoleAdmin
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.adminRepo.GetByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.adminRepo.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
		CreatedBy:    &actorID,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionCreateAdmin,
		ResourceType: "admin",
		ResourceID:   &admin.ID,
		NewValues: map[string]any{
			"email":     admin.Email,
			"full_name": admin.FullName,
			"role":      admin.Role,
			"password":  req.Password,
		},
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return admin, nil
}

func (s *AdminService) Update(actorID, id int64, req models.UpdateAdminRequest, ip, userAgent string) (*models.Admin, error) {
	admin, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	oldValues := map[string]any{
		"email":     admin.Email,
		"full_name": admin.FullName,
		"role":      admin.Role,
		"is_active": admin.IsActive,
	}

	if req.Email != nil && *req.Email != admin.Email {
		if _, err := s.adminRepo.GetByEmail(*req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		admin.Email = *req.Email
	}
	if req.FullName != nil {
		admin.FullName = req.FullName
	}
	if req.Role != nil {
		role := models.AdminRole(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		if admin.Role == models.RoleSuperAdmin && role != models.RoleSuperAdmin {
			count, err := s.adminRepo.CountActiveSuperAdmins()
			if err != nil {
				return nil, err
			}
			if count <= 1 {
				return nil, ErrLastSuperAdmin
			}
		}
		admin.Role = role
	}
	if req.IsActive != nil {
		// Deactivation goes through Deactivate so the guards apply.
		if !*req.IsActive {
			return nil, errors.New("use the deactivate endpoint to disable an account")
		}
		admin.IsActive = true
	}

	if err := s.adminRepo.Update(admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if req.Password != nil {
		if err := ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := s.adminRepo.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.adminRepo.UpdatePassword(id, hash); err != nil {
			return nil, err
		}
	}

	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionUpdateAdmin,
		ResourceType: "admin",
		ResourceID:   &admin.ID,
		OldValues:    oldValues,
		NewValues: map[string]any{
			"email":     admin.Email,
			"full_name": admin.FullName,
			"role":      admin.Role,
			"is_active": admin.IsActive,
		},
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return admin, nil
}

// Deactivate disables an account. Self-deactivation is refused, and the
// repository guard keeps at least one active super admin.
func (s *AdminService) Deactivate(actorID, id int64, ip, userAgent string) error {
	if actorID == id {
		return ErrSelfDeactivation
	}

	admin, err := s.GetByID(id)
	if err != nil {
		return err
	}

	ok, err := s.adminRepo.Deactivate(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLastSuperAdmin
	}

	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionDeactivateAdmin,
		ResourceType: "admin",
		ResourceID:   &id,
		OldValues:    map[string]any{"email": admin.Email, "is_active": true},
		NewValues:    map[string]any{"is_active": false},
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return nil
}

// InitDefaultSuperAdmin seeds the first super admin on an empty database so
// the panel is reachable after a fresh deploy.
func (s *AdminService) InitDefaultSuperAdmin(email, password string) error {
	count, err := s.adminRepo.CountActiveSuperAdmins()
	if err != nil {
		return fmt.Errorf("failed to count super admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	if password == "" || ValidatePassword(password) != nil {
		// Fresh deploy without a usable ADMIN_PASSWORD still has to be
		// reachable. Generate one and print it once.
		generated, err := generateBootstrapPassword()
		if err != nil {
			return err
		}
		password = generated
		log.Printf("generated super admin password for %s: %s (change it after first login)", email, password)
	}

	hash, err := s.adminRepo.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to bootstrap super admin: %w", err)
	}
	log.Printf("bootstrapped super admin %s", admin.Email)
	return nil
}

func generateBootstrapPassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
	for {
		password, err := utils.GenerateRandomStringWithLength(16, charset)
		if err != nil {
			return "", err
		}
		if ValidatePassword(password) == nil {
			return password, nil
		}
	}
}
