package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"donation-service/internal/database/minio"
	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *services.ReportService
	storage *minio.MinioService
}

func NewReportHandler(reports *services.ReportService, storage *minio.MinioService) *ReportHandler {
	return &ReportHandler{reports: reports, storage: storage}
}

func (h *ReportHandler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	r.GET("/api/reports", h.ListPublic)

	admin := r.Group("/api/admin/reports", authMW)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func (h *ReportHandler) ListPublic(c *gin.Context) {
	reports, err := h.reports.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) Create(c *gin.Context) {
	req, ok := h.bindReport(c)
	if !ok {
		return
	}

	report, err := h.reports.Create(c.Request.Context(), currentAdminID(c), *req, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "report": report})
}

func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	req, ok := h.bindReport(c)
	if !ok {
		return
	}

	var oldReceipt *string
	if req.ReceiptURL != nil {
		if existing, err := h.reports.GetByID(id); err == nil {
			oldReceipt = existing.ReceiptURL
		}
	}

	report, err := h.reports.Update(c.Request.Context(), currentAdminID(c), id, *req, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	if oldReceipt != nil && req.ReceiptURL != nil && *oldReceipt != *req.ReceiptURL {
		h.removeStoredReceipt(c.Request.Context(), *oldReceipt)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var oldReceipt *string
	if existing, err := h.reports.GetByID(id); err == nil {
		oldReceipt = existing.ReceiptURL
	}

	if err := h.reports.Delete(c.Request.Context(), currentAdminID(c), id, getClientIP(c), c.GetHeader("User-Agent")); err != nil {
		respondError(c, err)
		return
	}
	if oldReceipt != nil {
		h.removeStoredReceipt(c.Request.Context(), *oldReceipt)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ReportHandler) removeStoredReceipt(ctx context.Context, url string) {
	if h.storage == nil {
		return
	}
	object, ok := h.storage.ObjectNameFromURL(minio.ReportReceiptBucket, url)
	if !ok {
		return
	}
	if err := h.storage.RemoveFile(ctx, minio.ReportReceiptBucket, object); err != nil {
		log.Printf("failed to remove report receipt %s: %v", object, err)
	}
}

// bindReport accepts JSON and multipart bodies. A "receipt" part is stored
// and its URL replaces receipt_url.
func (h *ReportHandler) bindReport(c *gin.Context) (*models.ReportRequest, bool) {
	var req models.ReportRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return nil, false
	}

	var errs []ValidationError
	if req.CampaignID < 1 {
		errs = append(errs, ValidationError{Msg: "campaign is required", Param: "campaign_id"})
	}
	if req.Amount <= 0 {
		errs = append(errs, ValidationError{Msg: "amount must be positive", Param: "amount"})
	}
	if req.Description == "" {
		errs = append(errs, ValidationError{Msg: "description is required", Param: "description"})
	}
	if req.ExpenseDate == "" {
		errs = append(errs, ValidationError{Msg: "expense date is required", Param: "expense_date"})
	} else if _, err := time.Parse("2006-01-02", req.ExpenseDate); err != nil {
		errs = append(errs, ValidationError{Msg: "expense date must be YYYY-MM-DD", Param: "expense_date"})
	}
	if len(errs) > 0 {
		respondValidationErrors(c, errs)
		return nil, false
	}

	if header, err := c.FormFile("receipt"); err == nil && h.storage != nil {
		if err := utils.ValidateReceiptFile(header); err != nil {
			respondValidationErrors(c, []ValidationError{{Msg: err.Error(), Param: "receipt"}})
			return nil, false
		}
		file, err := header.Open()
		if err != nil {
			respondError(c, err)
			return nil, false
		}
		defer file.Close()

		objectName := utils.GenerateSafeFilename(header.Filename)
		url, err := h.storage.UploadFile(c.Request.Context(), minio.ReportReceiptBucket,
			objectName, file, header.Size, utils.ContentTypeForExt(header.Filename))
		if err != nil {
			respondError(c, err)
			return nil, false
		}
		req.ReceiptURL = &url
	}
	return &req, true
}
