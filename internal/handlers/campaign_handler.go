package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"donation-service/internal/database/minio"
	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaigns *services.CampaignService
	reports   *services.ReportService
	storage   *minio.MinioService
}

func NewCampaignHandler(campaigns *services.CampaignService, reports *services.ReportService, storage *minio.MinioService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, reports: reports, storage: storage}
}

func (h *CampaignHandler) RegisterRoutes(r *gin.Engine, authMW, superAdminMW gin.HandlerFunc) {
	public := r.Group("/api/campaigns")
	public.GET("", h.ListActive)
	public.GET("/:id", h.Get)
	public.GET("/:id/reports", h.ListReports)

	admin := r.Group("/api/admin/campaigns", authMW)
	admin.GET("", h.ListAll)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", superAdminMW, h.Delete)
}

func (h *CampaignHandler) ListActive(c *gin.Context) {
	campaigns, err := h.campaigns.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	campaign, err := h.campaigns.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

func (h *CampaignHandler) ListReports(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := h.campaigns.GetByID(id); err != nil {
		respondError(c, err)
		return
	}
	reports, err := h.reports.ListByCampaign(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *CampaignHandler) ListAll(c *gin.Context) {
	campaigns, err := h.campaigns.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (h *CampaignHandler) Create(c *gin.Context) {
	req, ok := h.bindCampaign(c)
	if !ok {
		return
	}

	campaign, err := h.campaigns.Create(c.Request.Context(), currentAdminID(c), *req, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "campaign": campaign})
}

func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	req, ok := h.bindCampaign(c)
	if !ok {
		return
	}

	var oldImage *string
	if req.ImageURL != nil {
		if existing, err := h.campaigns.GetByID(id); err == nil {
			oldImage = existing.ImageURL
		}
	}

	campaign, err := h.campaigns.Update(c.Request.Context(), currentAdminID(c), id, *req, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	if oldImage != nil && req.ImageURL != nil && *oldImage != *req.ImageURL {
		h.removeStoredImage(c.Request.Context(), *oldImage)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "campaign": campaign})
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var oldImage *string
	if existing, err := h.campaigns.GetByID(id); err == nil {
		oldImage = existing.ImageURL
	}

	if err := h.campaigns.Delete(c.Request.Context(), currentAdminID(c), id, getClientIP(c), c.GetHeader("User-Agent")); err != nil {
		respondError(c, err)
		return
	}
	if oldImage != nil {
		h.removeStoredImage(c.Request.Context(), *oldImage)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// removeStoredImage drops a replaced or orphaned campaign image from object
// storage, best effort.
func (h *CampaignHandler) removeStoredImage(ctx context.Context, url string) {
	if h.storage == nil {
		return
	}
	object, ok := h.storage.ObjectNameFromURL(minio.CampaignImageBucket, url)
	if !ok {
		return
	}
	if err := h.storage.RemoveFile(ctx, minio.CampaignImageBucket, object); err != nil {
		log.Printf("failed to remove campaign image %s: %v", object, err)
	}
}

// bindCampaign accepts both JSON and multipart bodies. A multipart "image"
// part goes to object storage and its public URL replaces image_url.
func (h *CampaignHandler) bindCampaign(c *gin.Context) (*models.CampaignRequest, bool) {
	var req models.CampaignRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return nil, false
	}

	var errs []ValidationError
	if req.Title == "" {
		errs = append(errs, ValidationError{Msg: "title is required", Param: "title"})
	}
	if req.GoalAmount <= 0 {
		errs = append(errs, ValidationError{Msg: "goal amount must be positive", Param: "goal_amount"})
	}
	if req.EndDate != nil && *req.EndDate != "" {
		if _, err := time.Parse("2006-01-02", *req.EndDate); err != nil {
			errs = append(errs, ValidationError{Msg: "end date must be YYYY-MM-DD", Param: "end_date"})
		}
	}
	if len(errs) > 0 {
		respondValidationErrors(c, errs)
		return nil, false
	}

	if header, err := c.FormFile("image"); err == nil && h.storage != nil {
		if err := utils.ValidateImageFile(header); err != nil {
			respondValidationErrors(c, []ValidationError{{Msg: err.Error(), Param: "image"}})
			return nil, false
		}
		file, err := header.Open()
		if err != nil {
			respondError(c, err)
			return nil, false
		}
		defer file.Close()

		objectName := utils.GenerateSafeFilename(header.Filename)
		url, err := h.storage.UploadFile(c.Request.Context(), minio.CampaignImageBucket,
			objectName, file, header.Size, utils.ContentTypeForExt(header.Filename))
		if err != nil {
			respondError(c, err)
			return nil, false
		}
		req.ImageURL = &url
	}
	return &req, true
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid id", Param: "id"}})
		return 0, false
	}
	return id, true
}
