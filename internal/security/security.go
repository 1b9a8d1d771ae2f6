package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	// AllowedOrigins lists CORS origins. Empty or "*" allows every origin.
	AllowedOrigins []string      `json:"allowed_origins"`
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	RequestTimeout time.Duration `json:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxBodyBytes:   1 << 20,
		RequestTimeout: 30 * time.Second,
	}
}

// SecurityMiddleware groups the request hardening handlers
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	defaults := DefaultSecurityConfig()
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	return &SecurityMiddleware{config: config}
}

// Config returns the effective configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// allowsAllOrigins reports whether CORS is open to any origin
func (sm *SecurityMiddleware) allowsAllOrigins() bool {
	if len(sm.config.AllowedOrigins) == 0 {
		return true
	}
	for _, origin := range sm.config.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// CORS returns the cross-origin policy. Credentials are only allowed when
// the origins are listed explicitly.
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
			"X-RateLimit-User-Limit", "X-RateLimit-User-Remaining", "X-RateLimit-User-Reset",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}

	if sm.allowsAllOrigins() {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = sm.config.AllowedOrigins
		config.AllowCredentials = true
	}

	return cors.New(config)
}

// ValidateContentType rejects request bodies that are not JSON. Requests
// without a Content-Type are let through and fail body validation instead.
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		c.Next()
		return
	}

	contentType := strings.ToLower(c.ContentType())
	if contentType != "" && contentType != gin.MIMEJSON {
		errors.Respond(c, errors.NewRequestError("Unsupported content type", http.StatusUnsupportedMediaType, nil))
		return
	}

	c.Next()
}

// LimitBody caps the request body. Declared lengths over the cap are
// rejected up front; undeclared ones fail when the handler reads past it.
func (sm *SecurityMiddleware) LimitBody(c *gin.Context) {
	if c.Request.ContentLength > sm.config.MaxBodyBytes {
		errors.Respond(c, errors.NewRequestError("Request body too large", http.StatusRequestEntityTooLarge, nil))
		return
	}

	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}

	c.Next()
}

// RequestTimeout bounds the request context so store calls give up in time
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}
