package handlers

import (
	"net/http"
	"strconv"
	"time"

	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) RegisterRoutes(r *gin.Engine, authMW, superAdminMW gin.HandlerFunc) {
	logs := r.Group("/api/admin/audit-logs", authMW, superAdminMW)
	logs.GET("", h.List)
	logs.GET("/stats", h.Stats)
}

func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditLogFilter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		Page:         utils.GetQueryParamAsInt(c, "page", 1),
		Limit:        utils.GetQueryParamAsInt(c, "limit", 50),
	}

	if raw := c.Query("admin_id"); raw != "" {
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidationErrors(c, []ValidationError{{Msg: "invalid admin id", Param: "admin_id"}})
			return
		}
		filter.AdminID = &adminID
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidationErrors(c, []ValidationError{{Msg: "invalid date", Param: "date_from"}})
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidationErrors(c, []ValidationError{{Msg: "invalid date", Param: "date_to"}})
			return
		}
		// Inclusive end of day.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &to
	}

	logs, total, err := h.audit.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  filter.Page,
	})
}

func (h *AuditHandler) Stats(c *gin.Context) {
	days := utils.GetQueryParamAsInt(c, "days", 30)
	stats, err := h.audit.Stats(days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
