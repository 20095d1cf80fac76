package handlers

import (
	"errors"
	"log"
	"net/http"

	"donation-service/internal/services"

	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

func respondValidationErrors(c *gin.Context, errs []ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// respondError maps service errors onto the wire. Unrecognized errors are
// logged and surface as a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	var locked *services.LockedError
	if errors.As(err, &locked) {
		c.JSON(http.StatusLocked, gin.H{
			"error":             locked.Error(),
			"remaining_minutes": locked.RemainingMinutes(),
		})
		return
	}

	var credentials *services.CredentialsError
	if errors.As(err, &credentials) {
		body := gin.H{"error": credentials.Error()}
		if credentials.AttemptsRemaining >= 0 {
			body["attempts_remaining"] = credentials.AttemptsRemaining
		}
		c.JSON(http.StatusUnauthorized, body)
		return
	}

	switch {
	case errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrAccountDeactivated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAdminNotFound),
		errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrHashNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrCampaignInactive),
		errors.Is(err, services.ErrCampaignHasDonations),
		errors.Is(err, services.ErrSelfDeactivation),
		errors.Is(err, services.ErrLastSuperAdmin):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
