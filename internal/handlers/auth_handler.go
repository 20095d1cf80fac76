package handlers

import (
	"net/http"
	"strings"

	"donation-service/internal/models"
	"donation-service/internal/services"
	"donation-service/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	admin := r.Group("/api/admin")
	admin.POST("/login", h.Login)
	admin.GET("/verify", authMW, h.Verify)
	admin.POST("/change-password", authMW, h.ChangePassword)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return
	}

	if errs := validateLogin(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	admin, token, err := h.auth.Login(req.Email, req.Password, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin":   admin.PublicView(),
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	value, _ := c.Get(ctxClaims)
	claims, ok := value.(*models.Claims)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
		return
	}

	role := claims.Role
	if role == "" {
		role = string(models.RoleAdmin)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin": gin.H{
			"id":        claims.AdminID,
			"email":     claims.Email,
			"full_name": claims.FullName,
			"role":      role,
		},
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, []ValidationError{{Msg: "invalid request body"}})
		return
	}

	var errs []ValidationError
	if req.OldPassword == "" {
		errs = append(errs, ValidationError{Msg: "current password is required", Param: "old_password"})
	}
	if req.NewPassword == "" {
		errs = append(errs, ValidationError{Msg: "new password is required", Param: "new_password"})
	}
	if len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	err := h.auth.ChangePassword(currentAdminID(c), req.OldPassword, req.NewPassword, getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func validateLogin(req *models.LoginRequest) []ValidationError {
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
	return errs
}
