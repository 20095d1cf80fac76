package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donation-service/internal/event"
	"donation-service/internal/models"
	"donation-service/internal/repository"
)

var ErrCampaignInactive = errors.New("campaign is not accepting donations")

type DonationService struct {
	donationRepo repository.IDonationRepository
	campaignRepo repository.ICampaignRepository
	cipher       *EmailCipher
	publisher    *event.DonationPublisher
	audit        *AuditService
	cache        *CacheService
}

func NewDonationService(
	donationRepo repository.IDonationRepository,
	campaignRepo repository.ICampaignRepository,
	cipher *EmailCipher,
	publisher *event.DonationPublisher,
	audit *AuditService,
	cache *CacheService,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
		cipher:       cipher,
		publisher:    publisher,
		audit:        audit,
		cache:        cache,
	}
}

// Create records a donation. adminID is nil for the public form; admins may
// also record donations against inactive campaigns (offline payments arrive
// after a campaign closes).
func (s *DonationService) Create(ctx context.Context, req models.CreateDonationRequest, adminID *int64, ip, userAgent string) (*models.Donation, error) {
	campaign, err := s.campaignRepo.GetByID(req.CampaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	if !campaign.IsActive && adminID == nil {
		return nil, ErrCampaignInactive
	}

	donation := &models.Donation{
		CampaignID:    req.CampaignID,
		Amount:        req.Amount,
		DonorName:     req.DonorName,
		IsAnonymous:   req.IsAnonymous,
		PaymentMethod: models.PaymentMethodManual,
		Status:        models.DonationStatusCompleted,
	}
	if req.PaymentMethod != nil && *req.PaymentMethod != "" {
		donation.PaymentMethod = *req.PaymentMethod
	}

	// Anonymity is decided at write time: anonymous donations store no PII
	// at all, so there is nothing to suppress or leak later.
	if req.IsAnonymous {
		donation.DonorName = nil
	} else if req.DonorEmail != nil && *req.DonorEmail != "" {
		encrypted, err := s.cipher.Encrypt(*req.DonorEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt donor email: %w", err)
		}
		donation.DonorEmailEncrypted = &encrypted
	}

	if err := s.donationRepo.Create(donation); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.DonationEvent{
		DonationID:  donation.ID,
		CampaignID:  donation.CampaignID,
		Amount:      donation.Amount,
		IsAnonymous: donation.IsAnonymous,
		CreatedAt:   donation.CreatedAt,
	})
	s.cache.InvalidateOnDonation(ctx)

	if adminID != nil {
		s.audit.Record(AuditEntry{
			AdminID:      adminID,
			Action:       models.ActionCreateDonation,
			ResourceType: "donation",
			ResourceID:   &donation.ID,
			NewValues: map[string]any{
				"campaign_id":  donation.CampaignID,
				"amount":       donation.Amount,
				"donor_name":   donation.DonorName,
				"is_anonymous": donation.IsAnonymous,
			},
			IPAddress: ip,
			UserAgent: userAgent,
		})
	}
	return donation, nil
}

// Recent is the public feed. Anonymous donors are masked before the rows
// leave the service.
func (s *DonationService) Recent(ctx context.Context, limit int) ([]models.Donation, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	cacheKey := RecentDonationsKey(limit)
	donations := []models.Donation{}
	if s.cache.Get(ctx, cacheKey, &donations) {
		return donations, nil
	}

	donations, err := s.donationRepo.ListRecent(limit)
	if err != nil {
		return nil, err
	}
	for i := range donations {
		if donations[i].IsAnonymous {
			donations[i].DonorName = nil
		}
	}
	s.cache.Set(ctx, cacheKey, donations)
	return donations, nil
}

func (s *DonationService) Statistics(ctx context.Context) (*models.DonationStatistics, error) {
	stats := &models.DonationStatistics{}
	if s.cache.Get(ctx, CacheKeyDonationStatistics, stats) {
		return stats, nil
	}

	stats, err := s.donationRepo.Statistics()
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, CacheKeyDonationStatistics, stats)
	return stats, nil
}

// ListAll is the admin view: donor emails are decrypted in memory for the
// response. Undecryptable values are left empty instead of failing the page.
func (s *DonationService) ListAll(page, limit int) ([]models.Donation, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	donations, total, err := s.donationRepo.ListAll(page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range donations {
		if donations[i].DonorEmailEncrypted == nil {
			continue
		}
		email, err := s.cipher.Decrypt(*donations[i].DonorEmailEncrypted)
		if err != nil {
			continue
		}
		donations[i].DonorEmail = &email
	}
	return donations, total, nil
}
