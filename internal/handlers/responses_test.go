package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donation-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runRespondError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return w
}

func TestRespondErrorLocked(t *testing.T) {
	w := runRespondError(&services.LockedError{Until: time.Now().Add(30 * time.Minute)})

	assert.Equal(t, http.StatusLocked, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "locked")
	assert.InDelta(t, 30, body["remaining_minutes"], 1)
}

func TestRespondErrorCredentials(t *testing.T) {
	w := runRespondError(&services.CredentialsError{AttemptsRemaining: 2})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid credentials", body["error"])
	assert.EqualValues(t, 2, body["attempts_remaining"])
}

func TestRespondErrorCredentialsUnknownAccount(t *testing.T) {
	w := runRespondError(&services.CredentialsError{AttemptsRemaining: -1})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "attempts_remaining")
}

func TestRespondErrorNotFound(t *testing.T) {
	for _, err := range []error{
		services.ErrAdminNotFound,
		services.ErrCampaignNotFound,
		services.ErrReportNotFound,
		services.ErrHashNotFound,
	} {
		w := runRespondError(err)
		assert.Equal(t, http.StatusNotFound, w.Code, "error %v", err)
	}
}

func TestRespondErrorBusinessRules(t *testing.T) {
	for _, err := range []error{
		services.ErrEmailTaken,
		services.ErrLastSuperAdmin,
		services.ErrSelfDeactivation,
		services.ErrCampaignHasDonations,
	} {
		w := runRespondError(err)
		assert.Equal(t, http.StatusBadRequest, w.Code, "error %v", err)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, err.Error(), body["error"])
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	w := runRespondError(errors.New("pq: connection refused on 10.1.2.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
}
