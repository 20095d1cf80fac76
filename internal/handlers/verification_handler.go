package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

// VerificationHandler exposes the public transparency surface: daily hashes
// and the raw data needed to recompute them.
type VerificationHandler struct {
	verification *services.VerificationService
}

func NewVerificationHandler(verification *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

func (h *VerificationHandler) RegisterRoutes(r *gin.Engine, authMW, superAdminMW gin.HandlerFunc) {
	public := r.Group("/api/verification")
	// Status stays reachable even while the feature is off, so the frontend
	// can tell "disabled" apart from "broken".
	public.GET("/status", h.Status)

	flagged := public.Group("", h.requireEnabled)
	flagged.GET("/hash/:date", h.GetHash)
	flagged.GET("/data/:date", h.ExportData)
	flagged.GET("/hashes", h.ListHashes)
	flagged.GET("/verify/:date", h.VerifyDay)

	admin := r.Group("/api/admin/verification", authMW)
	admin.POST("/generate", h.Generate)
	admin.POST("/toggle", superAdminMW, h.Toggle)
}

func (h *VerificationHandler) requireEnabled(c *gin.Context) {
	enabled, err := h.verification.Enabled()
	if err != nil {
		respondError(c, err)
		c.Abort()
		return
	}
	if !enabled {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "verification is disabled"})
		return
	}
	c.Next()
}

func (h *VerificationHandler) Status(c *gin.Context) {
	enabled, err := h.verification.Enabled()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

func (h *VerificationHandler) GetHash(c *gin.Context) {
	dailyHash, err := h.verification.GetHash(c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_hash": dailyHash})
}

// ExportData streams the digest input as CSV so anyone can recompute the
// published hash offline.
func (h *VerificationHandler) ExportData(c *gin.Context) {
	date := c.Param("date")
	transactions, err := h.verification.DayData(date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transactions-%s.csv", date))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"ID", "Campaign ID", "Amount", "Timestamp"})
	for _, t := range transactions {
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.CampaignID, 10),
			t.Amount,
			t.Timestamp,
		})
	}
	w.Flush()
}

func (h *VerificationHandler) ListHashes(c *gin.Context) {
	limit := utils.GetQueryParamAsInt(c, "limit", 30)
	hashes, err := h.verification.ListHashes(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hashes": hashes})
}

func (h *VerificationHandler) VerifyDay(c *gin.Context) {
	dailyHash, matches, err := h.verification.VerifyDay(c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"daily_hash": dailyHash,
		"valid":      matches,
	})
}

func (h *VerificationHandler) Generate(c *gin.Context) {
	var req models.GenerateHashRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == "" {
		respondValidationErrors(c, []ValidationError{{Msg: "date is required", Param: "date"}})
		return
	}

	result, err := h.verification.Generate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func (h *VerificationHandler) Toggle(c *gin.Context) {
	var req models.ToggleVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return
	}

	if err := h.verification.SetEnabled(currentAdminID(c), req.Enabled, getClientIP(c), c.GetHeader("User-Agent")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enabled": req.Enabled})
}
