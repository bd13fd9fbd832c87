package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
	"github.com/medroute/medroute/internal/types"
)

type TripHandler struct {
	tripService service.TripService
	logger      *logger.Logger
}

func NewTripHandler(tripService service.TripService, logger *logger.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip godoc
// @Summary Book a trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip body dto.CreateTripRequest true "Trip details"
// @Success 201 {object} dto.TripResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.tripService.CreateTrip(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create trip", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTrip godoc
// @Summary Get a trip by ID
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid trip id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.tripService.GetTrip(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTrips godoc
// @Summary List trips
// @Tags Trips
// @Produce json
// @Param facility_id query string false "Facility ID"
// @Param user_id query string false "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListTripsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /trips [get]
func (h *TripHandler) ListTrips(c *gin.Context) {
	var filter types.TripFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.tripService.ListTrips(c.Request.Context(), &filter)
	if err != nil {
		h.logger.Errorw("failed to list trips", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateTripStatus godoc
// @Summary Update a trip's lifecycle status
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param status body dto.UpdateTripStatusRequest true "New status"
// @Success 200 {object} dto.TripResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /trips/{id}/status [put]
func (h *TripHandler) UpdateTripStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid trip id").Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.tripService.UpdateTripStatus(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to update trip status", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
