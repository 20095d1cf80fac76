package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donation-service/internal/models"
	"donation-service/internal/repository"
)

const settingVerificationEnabled = "verification_enabled"

var (
	ErrHashNotFound = errors.New("no hash recorded for this date")
	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
)

// DailyHashResult is the generation outcome. Hash is nil when the day had no
// completed donations; nothing is stored for such days.
type DailyHashResult struct {
	Date              string  `json:"date"`
	Hash              *string `json:"hash"`
	TransactionsCount int     `json:"transactions_count"`
}

type VerificationService struct {
	repo  repository.IVerificationRepository
	audit *AuditService
}

func NewVerificationService(repo repository.IVerificationRepository, audit *AuditService) *VerificationService {
	return &VerificationService{repo: repo, audit: audit}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Generate recomputes and stores the digest for one day. Regenerating an
// already-published day overwrites the stored hash, so a correction to the
// ledger is visible as a changed digest.
func (s *VerificationService) Generate(date string) (*DailyHashResult, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListTransactions(date)
	if err != nil {
		return nil, err
	}

	result := &DailyHashResult{Date: date, TransactionsCount: len(transactions)}
	if len(transactions) == 0 {
		return result, nil
	}

	hash := ComputeDailyHash(transactions)
	if err := s.repo.UpsertDailyHash(date, hash, len(transactions)); err != nil {
		return nil, err
	}
	result.Hash = &hash
	return result, nil
}

func (s *VerificationService) GetHash(date string) (*models.DailyHash, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	dailyHash, err := s.repo.GetDailyHash(date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHashNotFound
		}
		return nil, fmt.Errorf("failed to load daily hash: %w", err)
	}
	return dailyHash, nil
}

// DayData returns the exact digest input for independent verification.
func (s *VerificationService) DayData(date string) ([]models.Transaction, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(date)
}

// VerifyDay recomputes the digest from current data and compares it to the
// stored one. A mismatch means the day's donations changed after publication.
func (s *VerificationService) VerifyDay(date string) (*models.DailyHash, bool, error) {
	dailyHash, err := s.GetHash(date)
	if err != nil {
		return nil, false, err
	}
	transactions, err := s.repo.ListTransactions(date)
	if err != nil {
		return nil, false, err
	}
	return dailyHash, VerifyDailyHash(transactions, dailyHash.Hash), nil
}

func (s *VerificationService) ListHashes(limit int) ([]models.DailyHash, error) {
	if limit < 1 || limit > 365 {
		limit = 30
	}
	return s.repo.ListDailyHashes(limit)
}

// Enabled defaults to true when the setting row is missing.
func (s *VerificationService) Enabled() (bool, error) {
	value, err := s.repo.GetSetting(settingVerificationEnabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read verification setting: %w", err)
	}
	return value == "true", nil
}

func (s *VerificationService) SetEnabled(actorID int64, enabled bool, ip, userAgent string) error {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := s.repo.SetSetting(settingVerificationEnabled, value); err != nil {
		return err
	}

	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionToggleVerification,
		ResourceType: "setting",
		NewValues:    map[string]any{"verification_enabled": enabled},
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return nil
}
