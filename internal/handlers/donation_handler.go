package handlers

import (
	"net/http"
	"strings"

	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

// minDonationAmount is the smallest accepted donation, in rubles.
const minDonationAmount = 100

type DonationHandler struct {
	donations *services.DonationService
}

func NewDonationHandler(donations *services.DonationService) *DonationHandler {
	return &DonationHandler{donations: donations}
}

func (h *DonationHandler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	public := r.Group("/api/donations")
	public.POST("", h.CreatePublic)
	public.GET("/recent", h.Recent)
	public.GET("/statistics", h.Statistics)

	admin := r.Group("/api/admin/donations", authMW)
	admin.GET("", h.ListAll)
	admin.POST("", h.CreateAdmin)
}

func (h *DonationHandler) CreatePublic(c *gin.Context) {
	h.create(c, nil)
}

func (h *DonationHandler) CreateAdmin(c *gin.Context) {
	adminID := currentAdminID(c)
	h.create(c, &adminID)
}

func (h *DonationHandler) create(c *gin.Context, adminID *int64) {
	var req models.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return
	}

	if errs := validateDonation(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	donation, err := h.donations.Create(c.Request.Context(), req, adminID, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "donation": donation})
}

func (h *DonationHandler) Recent(c *gin.Context) {
	limit := utils.GetQueryParamAsInt(c, "limit", 10)
	donations, err := h.donations.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

func (h *DonationHandler) Statistics(c *gin.Context) {
	stats, err := h.donations.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

func (h *DonationHandler) ListAll(c *gin.Context) {
	page := utils.GetQueryParamAsInt(c, "page", 1)
	limit := utils.GetQueryParamAsInt(c, "limit", 50)

	donations, total, err := h.donations.ListAll(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"donations": donations,
		"total":     total,
		"page":      page,
	})
}

func validateDonation(req *models.CreateDonationRequest) []ValidationError {
	var errs []ValidationError
	if req.CampaignID < 1 {
		errs = append(errs, ValidationError{Msg: "campaign is required", Param: "campaign_id"})
	}
	if req.Amount < minDonationAmount {
		errs = append(errs, ValidationError{Msg: "minimum donation amount is 100", Param: "amount"})
	}
	if req.DonorEmail != nil {
		trimmed := strings.TrimSpace(*req.DonorEmail)
		req.DonorEmail = &trimmed
		if trimmed != "" && !utils.ValidateEmail(trimmed) {
			errs = append(errs, ValidationError{Msg: "donor email is invalid", Param: "donor_email"})
		}
	}
	if req.DonorName != nil && len(*req.DonorName) > 255 {
		errs = append(errs, ValidationError{Msg: "donor name is too long", Param: "donor_name"})
	}
	return errs
}
