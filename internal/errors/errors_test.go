package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *AppError
		wantCategory ErrorCategory
		wantStatus   int
		wantString   string
	}{
		{
			name:         "validation",
			err:          NewValidationError("Email or password missing"),
			wantCategory: CategoryValidation,
			wantStatus:   http.StatusBadRequest,
			wantString:   "[VALIDATION_ERROR] Email or password missing",
		},
		{
			name:         "field",
			err:          NewFieldError("Missing required field: water.usage", "water.usage", nil),
			wantCategory: CategoryValidation,
			wantStatus:   http.StatusBadRequest,
			wantString:   "[VALIDATION_ERROR] Missing required field: water.usage",
		},
		{
			name:         "authentication",
			err:          NewAuthenticationError("No token provided", nil),
			wantCategory: CategoryAuthentication,
			wantStatus:   http.StatusUnauthorized,
			wantString:   "[AUTHENTICATION_ERROR] No token provided",
		},
		{
			name:         "forbidden",
			err:          NewForbiddenError("Invalid refresh token", fmt.Errorf("signature is invalid")),
			wantCategory: CategoryForbidden,
			wantStatus:   http.StatusForbidden,
			wantString:   "[FORBIDDEN] Invalid refresh token",
		},
		{
			name:         "not found",
			err:          NewNotFoundError("No ESG data found"),
			wantCategory: CategoryNotFound,
			wantStatus:   http.StatusNotFound,
			wantString:   "[NOT_FOUND] No ESG data found",
		},
		{
			name:         "rate limit",
			err:          NewRateLimitError("60"),
			wantCategory: CategoryRateLimit,
			wantStatus:   http.StatusTooManyRequests,
			wantString:   "[RATE_LIMIT_EXCEEDED] Rate limit exceeded",
		},
		{
			name:         "internal",
			err:          NewInternalError("insert failed", fmt.Errorf("disk full")),
			wantCategory: CategoryInternal,
			wantStatus:   http.StatusInternalServerError,
			wantString:   "[INTERNAL_ERROR] Server error",
		},
		{
			name:         "configuration",
			err:          NewConfigurationError("JWT_SECRET not set", nil),
			wantCategory: CategoryConfiguration,
			wantStatus:   http.StatusInternalServerError,
			wantString:   "[CONFIGURATION_ERROR] Configuration error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantString, tt.err.Error())
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestToAppError(t *testing.T) {
	original := NewNotFoundError("No ESG data found")
	assert.Same(t, original, ToAppError(original))

	wrapped := WrapError(original, "loading latest for %s", "user-1")
	assert.Same(t, original, ToAppError(wrapped))

	assert.Equal(t, CategoryTimeout, ToAppError(context.DeadlineExceeded).Category)
	assert.Equal(t, CategoryTimeout, ToAppError(context.Canceled).Category)
	assert.Equal(t, CategoryInternal, ToAppError(fmt.Errorf("boom")).Category)
	assert.Nil(t, ToAppError(nil))

	tooLarge := ToAppError(fmt.Errorf("reading body: %w", &http.MaxBytesError{Limit: 10}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, tooLarge.HTTPStatus)
	assert.Equal(t, "Request body too large", tooLarge.Message())
}

func TestMarshalJSON(t *testing.T) {
	appErr := NewFieldError("Missing required section: water", "water", nil)

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "Missing required section: water", body["message"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "validation", body["category"])
	assert.Equal(t, "water", body["field"])
	assert.NotContains(t, body, "stack_trace")
}

func TestRespond(t *testing.T) {
	router := gin.New()
	router.GET("/latest", func(c *gin.Context) {
		Respond(c, NewNotFoundError("No ESG data found"))
	})

	req := httptest.NewRequest(http.MethodGet, "/latest", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No ESG data found", body["message"])
	assert.Equal(t, "req-42", body["request_id"])
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewAuthenticationError("Invalid token", nil))
	})
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryHandler(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryHandler())
	router.GET("/panic", func(c *gin.Context) {
		panic("unexpected nil store")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}
