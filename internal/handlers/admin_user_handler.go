package handlers

import (
	"net/http"
	"strings"

	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

// AdminUserHandler manages admin accounts. Every route is super admin only.
type AdminUserHandler struct {
	admins *services.AdminService
}

func NewAdminUserHandler(admins *services.AdminService) *AdminUserHandler {
	return &AdminUserHandler{admins: admins}
}

func (h *AdminUserHandler) RegisterRoutes(r *gin.Engine, authMW, superAdminMW gin.HandlerFunc) {
	users := r.Group("/api/admin/users", authMW, superAdminMW)
	users.GET("", h.List)
	users.POST("", h.Create)
	users.PUT("/:id", h.Update)
	users.POST("/:id/deactivate", h.Deactivate)
}

func (h *AdminUserHandler) List(c *gin.Context) {
	admins, err := h.admins.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

func (h *AdminUserHandler) Create(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return
	}

	var errs []ValidationError
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		errs = append(errs, ValidationError{Msg: "email is required", Param: "email"})
	} else if !utils.ValidateEmail(req.Email) {
		errs = append(errs, ValidationError{Msg: "email is invalid", Param: "email"})
	}
	if req.Password == "" {
		errs = append(errs, ValidationError{Msg: "password is required", Param: "password"})
	}
	if len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	admin, err := h.admins.Create(currentAdminID(c), req, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "admin": admin})
}

func (h *AdminUserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
		if !utils.ValidateEmail(trimmed) {
			respondValidationErrors(c, []ValidationError{{Msg: "email is invalid", Param: "email"}})
			return
		}
	}

	admin, err := h.admins.Update(currentAdminID(c), id, req, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
}

func (h *AdminUserHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.admins.Deactivate(currentAdminID(c), id, getClientIP(c), c.GetHeader("User-Agent")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
