package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"donation-service/internal/models"
)

// fakeAdminRepo is an in-memory IAdminRepository. Password hashing is a
// reversible marker so tests stay fast and deterministic.
type fakeAdminRepo struct {
	admins    map[int64]*models.Admin
	nextID    int64
	createErr error
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[int64]*models.Admin{}, nextID: 1}
}

func (r *fakeAdminRepo) addAdmin(email, password string, role models.AdminRole, active bool) *models.Admin {
	admin := &models.Admin{
		ID:           r.nextID,
		Email:        strings.ToLower(email),
		PasswordHash: "hashed:" + password,
		Role:         role,
		IsActive:     active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.admins[admin.ID] = admin
	r.nextID++
	return admin
}

func (r *fakeAdminRepo) Create(admin *models.Admin) error {
	if r.createErr != nil {
		return r.createErr
	}
	admin.ID = r.nextID
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = time.Now()
	r.admins[admin.ID] = admin
	r.nextID++
	return nil
}

func (r *fakeAdminRepo) GetByEmail(email string) (*models.Admin, error) {
	for _, admin := range r.admins {
		if admin.Email == strings.ToLower(strings.TrimSpace(email)) {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeAdminRepo) GetByID(id int64) (*models.Admin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *admin
	return &copied, nil
}

func (r *fakeAdminRepo) List() ([]models.Admin, error) {
	out := []models.Admin{}
	for _, admin := range r.admins {
		out = append(out, *admin)
	}
	return out, nil
}

func (r *fakeAdminRepo) Update(admin *models.Admin) error {
	stored, ok := r.admins[admin.ID]
	if !ok {
		return errors.New("admin not found")
	}
	stored.Email = admin.Email
	stored.FullName = admin.FullName
	stored.Role = admin.Role
	stored.IsActive = admin.IsActive
	return nil
}

func (r *fakeAdminRepo) UpdatePassword(id int64, passwordHash string) error {
	stored, ok := r.admins[id]
	if !ok {
		return errors.New("admin not found")
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (r *fakeAdminRepo) RecordFailedAttempt(id int64) (int, error) {
	stored, ok := r.admins[id]
	if !ok {
		return 0, errors.New("admin not found")
	}
	stored.FailedLoginAttempts++
	return stored.FailedLoginAttempts, nil
}

func (r *fakeAdminRepo) LockAccount(id int64, until time.Time) error {
	stored, ok := r.admins[id]
	if !ok {
		return errors.New("admin not found")
	}
	stored.LockedUntil = &until
	return nil
}

func (r *fakeAdminRepo) ResetLoginState(id int64, ip string) error {
	stored, ok := r.admins[id]
	if !ok {
		return errors.New("admin not found")
	}
	now := time.Now()
	stored.FailedLoginAttempts = 0
	stored.LockedUntil = nil
	stored.LastLogin = &now
	stored.LastLoginIP = &ip
	return nil
}

func (r *fakeAdminRepo) Deactivate(id int64) (bool, error) {
	stored, ok := r.admins[id]
	if !ok {
		return false, nil
	}
	if stored.Role == models.RoleSuperAdmin {
		count, _ := r.CountActiveSuperAdmins()
		if count <= 1 {
			return false, nil
		}
	}
	stored.IsActive = false
	return true, nil
}

func (r *fakeAdminRepo) CountActiveSuperAdmins() (int, error) {
	count := 0
	for _, admin := range r.admins {
		if admin.Role == models.RoleSuperAdmin && admin.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeAdminRepo) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (r *fakeAdminRepo) CheckPasswordHash(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeAuditRepo records inserted entries and can be told to fail.
type fakeAuditRepo struct {
	entries    []models.AuditLog
	failInsert bool
}

func (r *fakeAuditRepo) Insert(entry *models.AuditLog) error {
	if r.failInsert {
		return errors.New("audit storage down")
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	return r.entries, len(r.entries), nil
}

func (r *fakeAuditRepo) CountByAction(days int) ([]models.AuditActionCount, error) {
	return []models.AuditActionCount{{Action: "LOGIN_SUCCESS", Count: int64(days)}}, nil
}

func (r *fakeAuditRepo) CountByAdmin(days int) ([]models.AuditAdminCount, error) {
	return []models.AuditAdminCount{}, nil
}

func (r *fakeAuditRepo) CountByDay(days int) ([]models.AuditDailyCount, error) {
	return []models.AuditDailyCount{}, nil
}

func (r *fakeAuditRepo) actionsRecorded() []models.AuditAction {
	actions := make([]models.AuditAction, 0, len(r.entries))
	for _, entry := range r.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

// fakeVerificationRepo keeps hashes and settings in memory.
type fakeVerificationRepo struct {
	transactions map[string][]models.Transaction
	hashes       map[string]*models.DailyHash
	settings     map[string]string
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{
		transactions: map[string][]models.Transaction{},
		hashes:       map[string]*models.DailyHash{},
		settings:     map[string]string{},
	}
}

func (r *fakeVerificationRepo) ListTransactions(date string) ([]models.Transaction, error) {
	return r.transactions[date], nil
}

func (r *fakeVerificationRepo) UpsertDailyHash(date, hash string, count int) error {
	parsed, _ := time.Parse("2006-01-02", date)
	r.hashes[date] = &models.DailyHash{Date: parsed, Hash: hash, TransactionsCount: count, CreatedAt: time.Now()}
	return nil
}

func (r *fakeVerificationRepo) GetDailyHash(date string) (*models.DailyHash, error) {
	hash, ok := r.hashes[date]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return hash, nil
}

func (r *fakeVerificationRepo) ListDailyHashes(limit int) ([]models.DailyHash, error) {
	out := []models.DailyHash{}
	for _, hash := range r.hashes {
		out = append(out, *hash)
	}
	return out, nil
}

func (r *fakeVerificationRepo) GetSetting(key string) (string, error) {
	value, ok := r.settings[key]
	if !ok {
		return "", sql.ErrNoRows
	}
	return value, nil
}

func (r *fakeVerificationRepo) SetSetting(key, value string) error {
	r.settings[key] = value
	return nil
}
