package submission

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mandar-Sonkusare/esg/internal/auth"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
	"github.com/Mandar-Sonkusare/esg/internal/types"
)

// RegisterRoutes mounts submit and calculate. group must already carry the
// auth middleware; extra runs before submit only (per-user limits).
func (s *Service) RegisterRoutes(group *gin.RouterGroup, extra ...gin.HandlerFunc) {
	group.POST("/submit", append(extra, s.handleSubmit)...)
	group.POST("/calculate", s.handleCalculate)
}

// handleSubmit godoc
// @Summary Score and store an ESG submission
// @Tags esg
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body scoring.Input true "All nine sections"
// @Success 201 {object} types.SubmitResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /api/esg/submit [post]
func (s *Service) handleSubmit(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		errors.Respond(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	record, err := s.Submit(c.Request.Context(), auth.UserID(c), raw)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.SubmitResponse{
		Message:                   "ESG data submitted successfully",
		ID:                        record.ID,
		Scores:                    record.Scores,
		EnvironmentalCalculations: record.EnvironmentalCalculations,
		CreatedAt:                 record.CreatedAt,
	})
}

// handleCalculate godoc
// @Summary Score an ESG submission without storing it
// @Tags esg
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body scoring.Input true "All nine sections"
// @Success 200 {object} types.CalculateResponse
// @Failure 400 {object} errors.AppError
// @Router /api/esg/calculate [post]
func (s *Service) handleCalculate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		errors.Respond(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := s.Calculate(auth.UserID(c), raw)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CalculateResponse{
		Scores:                    result.Scores,
		EnvironmentalCalculations: result.EnvironmentalCalculations,
	})
}

// HandleBenchmarks godoc
// @Summary Active emission factors, benchmark ranges and weights
// @Tags esg
// @Produce json
// @Success 200 {object} scoring.Config
// @Router /api/esg/benchmarks [get]
func (s *Service) HandleBenchmarks(c *gin.Context) {
	c.JSON(http.StatusOK, s.Benchmarks())
}
