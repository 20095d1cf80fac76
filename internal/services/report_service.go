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

var ErrReportNotFound = errors.New("report not found")

type ReportService struct {
	reportRepo   repository.IReportRepository
	campaignRepo repository.ICampaignRepository
	audit        *AuditService
	cache        *CacheService
}

func NewReportService(reportRepo repository.IReportRepository, campaignRepo repository.ICampaignRepository, audit *AuditService, cache *CacheService) *ReportService {
	return &ReportService{reportRepo: reportRepo, campaignRepo: campaignRepo, audit: audit, cache: cache}
}

func (s *ReportService) ListPublic(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	if s.cache.Get(ctx, CacheKeyPublicReports, &reports) {
		return reports, nil
	}

	reports, err := s.reportRepo.ListPublic()
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, CacheKeyPublicReports, reports)
	return reports, nil
}

func (s *ReportService) ListByCampaign(campaignID int64) ([]models.Report, error) {
	return s.reportRepo.ListByCampaign(campaignID)
}

func (s *ReportService) GetByID(id int64) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

func (s *ReportService) Create(ctx context.Context, actorID int64, req models.ReportRequest, ip, userAgent string) (*models.Report, error) {
	if _, err := s.campaignRepo.GetByID(req.CampaignID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expense date %q: %w", req.ExpenseDate, err)
	}

	report := &models.Report{
		CampaignID:  req.CampaignID,
		ExpenseDate: expenseDate,
		Amount:      req.Amount,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
		VendorName:  req.VendorName,
		CreatedBy:   &actorID,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	s.cache.InvalidateOnReport(ctx)
	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionCreateReport,
		ResourceType: "report",
		ResourceID:   &report.ID,
		NewValues:    reportSnapshot(report),
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return report, nil
}

func (s *ReportService) Update(ctx context.Context, actorID, id int64, req models.ReportRequest, ip, userAgent string) (*models.Report, error) {
	report, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	oldValues := reportSnapshot(report)

	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expense date %q: %w", req.ExpenseDate, err)
	}

	report.CampaignID = req.CampaignID
	report.ExpenseDate = expenseDate
	report.Amount = req.Amount
	report.Description = req.Description
	if req.ReceiptURL != nil {
		report.ReceiptURL = req.ReceiptURL
	}
	if req.VendorName != nil {
		report.VendorName = req.VendorName
	}

	if err := s.reportRepo.Update(report); err != nil {
		return nil, err
	}

	s.cache.InvalidateOnReport(ctx)
	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionUpdateReport,
		ResourceType: "report",
		ResourceID:   &report.ID,
		OldValues:    oldValues,
		NewValues:    reportSnapshot(report),
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return report, nil
}

func (s *ReportService) Delete(ctx context.Context, actorID, id int64, ip, userAgent string) error {
	report, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.reportRepo.Delete(id); err != nil {
		return err
	}

	s.cache.InvalidateOnReport(ctx)
	s.audit.Record(AuditEntry{
		AdminID:      &actorID,
		Action:       models.ActionDeleteReport,
		ResourceType: "report",
		ResourceID:   &id,
		OldValues:    reportSnapshot(report),
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	return nil
}

func reportSnapshot(r *models.Report) map[string]any {
	return map[string]any{
		"campaign_id":  r.CampaignID,
		"expense_date": r.ExpenseDate.Format("2006-01-02"),
		"amount":       r.Amount,
		"description":  r.Description,
		"receipt_url":  r.ReceiptURL,
		"vendor_name":  r.VendorName,
	}
}
