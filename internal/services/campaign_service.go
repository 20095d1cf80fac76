package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donation-service/internal/models"
	"donation-service/internal/repository"
)

var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignHasDonations = errors.New("campaign has donations and cannot be deleted")
)

type CampaignService struct {
	campaignRepo repository.ICampaignRepository
	audit        *AuditService
	cache        *CacheService
}

func NewCampaignService(campaignRepo repository.ICampaignRepository, audit *AuditService, cache *CacheService) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo, audit: audit, cache: cache}
}

func (s *CampaignService) ListActive(ctx context.Context) ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	if s.cache.Get(ctx, CacheKeyActiveCampaigns, &campaigns) {
		return campaigns, nil
	}

	campaigns, err := s.campaignRepo.ListActive()
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		campaigns[i].Progress = campaigns[i].ProgressPercentage()
	}
	s.cache.Set(ctx, CacheKeyActiveCampaigns, campaigns)
	return campaigns, nil
}

func (s *CampaignService) ListAll() ([]models.Campaign, error) {
	campaigns, err := s.campaignRepo.ListAll()
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		campaigns[i].Progress = campaigns[i].ProgressPercentage()
	}
	return campaigns, nil
}

func (s *CampaignService) GetByID(id int64) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	campaign.Progress = campaign.ProgressPercentage()
	return campaign, nil
}

func (s *CampaignService) Create(ctx context.Context, actorID int64, req models.CampaignRequest, ip, userAgent string) (*models.Campaign, error) {
	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		EndDate:     endDate,
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	s.cache.InvalidateOnCampaign(ctx)
	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionCreateCampaign,
		ResourceType: "campaign",
		ResourceID:   &campaign.ID,
		NewValues:    campaignSnapshot(campaign),
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return campaign, nil
}

func (s *CampaignService) Update(ctx context.Context, actorID, id int64, req models.CampaignRequest, ip, userAgent string) (*models.Campaign, error) {
	campaign, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	oldValues := campaignSnapshot(campaign)

	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	campaign.Title = req.Title
	campaign.Description = req.Description
	campaign.GoalAmount = req.GoalAmount
	if req.ImageURL != nil {
		campaign.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}
	if endDate != nil {
		campaign.EndDate = endDate
	}

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}

	s.cache.InvalidateOnCampaign(ctx)
	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionUpdateCampaign,
		ResourceType: "campaign",
		ResourceID:   &campaign.ID,
		OldValues:    oldValues,
		NewValues:    campaignSnapshot(campaign),
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return campaign, nil
}

// Delete refuses when donations reference the campaign: the public ledger
// and the daily hashes must keep resolving every historical donation.
func (s *CampaignService) Delete(ctx context.Context, actorID, id int64, ip, userAgent string) error {
	campaign, err := s.GetByID(id)
	if err != nil {
		return err
	}

	count, err := s.campaignRepo.CountDonations(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCampaignHasDonations
	}

	if err := s.campaignRepo.Delete(id); err != nil {
		return err
	}

	s.cache.InvalidateOnCampaign(ctx)
	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionDeleteCampaign,
		ResourceType: "campaign",
		ResourceID:   &id,
		OldValues:    campaignSnapshot(campaign),
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return nil
}

func campaignSnapshot(c *models.Campaign) map[string]any {
	return map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"goal_amount": c.GoalAmount,
		"image_url":   c.ImageURL,
		"is_active":   c.IsActive,
		"end_date":    c.EndDate,
	}
}

func parseEndDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", *value, err)
	}
	return &parsed, nil
}
