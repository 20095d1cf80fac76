package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"donation-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// ErrDuplicateEmail reports the admins email unique index firing, which the
// pre-insert existence check cannot rule out under concurrent writes.
var ErrDuplicateEmail = errors.New("email already exists")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type IAdminRepository interface {
	Create(admin *models.Admin) error
	GetByEmail(email string) (*models.Admin, error)
	GetByID(id int64) (*models.Admin, error)
	List() ([]models.Admin, error)
	Update(admin *models.Admin) error
	UpdatePassword(id int64, passwordHash string) error
	RecordFailedAttempt(id int64) (int, error)
	LockAccount(id int64, until time.Time) error
	ResetLoginState(id int64, ip string) error
	Deactivate(id int64) (bool, error)
	CountActiveSuperAdmins() (int, error)
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) IAdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	query := `
		INSERT INTO admins (email, password_hash, full_name, role, is_active, created_by)
		VALUES (:email, :password_hash, :full_name, :role, :is_active, :created_by)
		RETURNING id, created_at, updated_at`

	rows, err := r.db.NamedQuery(query, admin)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan created admin: %w", err)
		}
	}
	return nil
}

func (r *AdminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Get(&admin, "SELECT * FROM admins WHERE email = $1", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByID(id int64) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Get(&admin, "SELECT * FROM admins WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) List() ([]models.Admin, error) {
	admins := []models.Admin{}
	err := r.db.Select(&admins, "SELECT * FROM admins ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

func (r *AdminRepository) Update(admin *models.Admin) error {
	query := `
		UPDATE admins
		SET email = :email, full_name = :full_name, role = :role,
		    is_active = :is_active, updated_at = NOW()
		WHERE id = :id`

	result, err := r.db.NamedExec(query, admin)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update admin: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("admin not found")
	}
	return nil
}

func (r *AdminRepository) UpdatePassword(id int64, passwordHash string) error {
	result, err := r.db.Exec(
		"UPDATE admins SET password_hash = $1, updated_at = NOW() WHERE id = $2",
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("admin not found")
	}
	return nil
}

// RecordFailedAttempt bumps the counter in a single statement and returns
// the new value, so concurrent failed logins cannot lose an increment.
func (r *AdminRepository) RecordFailedAttempt(id int64) (int, error) {
	var attempts int
	err := r.db.Get(&attempts, `
		UPDATE admins
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to record login attempt: %w", err)
	}
	return attempts, nil
}

func (r *AdminRepository) LockAccount(id int64, until time.Time) error {
	_, err := r.db.Exec(
		"UPDATE admins SET locked_until = $1, updated_at = NOW() WHERE id = $2",
		until, id)
	if err != nil {
		return fmt.Errorf("failed to lock account: %w", err)
	}
	return nil
}

func (r *AdminRepository) ResetLoginState(id int64, ip string) error {
	_, err := r.db.Exec(`
		UPDATE admins
		SET failed_login_attempts = 0, locked_until = NULL,
		    last_login = NOW(), last_login_ip = $1, updated_at = NOW()
		WHERE id = $2`, ip, id)
	if err != nil {
		return fmt.Errorf("failed to reset login state: %w", err)
	}
	return nil
}

// Deactivate refuses to disable the last active super admin. The count check
// and the update run as one statement, so two concurrent deactivations cannot
// both succeed. Returns false when the guard blocked the update.
func (r *AdminRepository) Deactivate(id int64) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE admins
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
		  AND (role <> 'super_admin'
		       OR (SELECT COUNT(*) FROM admins WHERE role = 'super_admin' AND is_active = TRUE) > 1)`,
		id)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate admin: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *AdminRepository) CountActiveSuperAdmins() (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM admins WHERE role = 'super_admin' AND is_active = TRUE")
	if err != nil {
		return 0, fmt.Errorf("failed to count super admins: %w", err)
	}
	return count, nil
}

func (r *AdminRepository) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func (r *AdminRepository) CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
