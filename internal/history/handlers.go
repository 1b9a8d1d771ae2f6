package history

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mandar-Sonkusare/esg/internal/auth"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

// RegisterRoutes mounts the read endpoints. group must already carry the
// auth middleware.
func (s *Service) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/latest", s.handleLatest)
	group.GET("/trend", s.handleTrend)
}

// handleLatest godoc
// @Summary Latest ESG record of the caller
// @Tags esg
// @Produce json
// @Security BearerAuth
// @Success 200 {object} database.Record
// @Failure 404 {object} errors.AppError
// @Router /api/esg/latest [get]
func (s *Service) handleLatest(c *gin.Context) {
	record, err := s.Latest(c.Request.Context(), auth.UserID(c))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// handleTrend godoc
// @Summary Score history of the caller, oldest first
// @Tags esg
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of most recent records (default 10, max 100)"
// @Success 200 {array} database.TrendPoint
// @Failure 400 {object} errors.AppError
// @Router /api/esg/trend [get]
func (s *Service) handleTrend(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errors.Respond(c, errors.NewFieldError("Invalid value for limit: must be a positive integer", "limit", err))
			return
		}
		limit = parsed
	}

	points, err := s.Trend(c.Request.Context(), auth.UserID(c), limit)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}
