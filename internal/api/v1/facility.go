package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
)

type FacilityHandler struct {
	facilityService service.FacilityService
	logger          *logger.Logger
}

func NewFacilityHandler(facilityService service.FacilityService, logger *logger.Logger) *FacilityHandler {
	return &FacilityHandler{
		facilityService: facilityService,
		logger:          logger,
	}
}

// CreateFacility godoc
// @Summary Register a facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Param facility body dto.CreateFacilityRequest true "Facility details"
// @Success 201 {object} dto.FacilityResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /facilities [post]
func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var req dto.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.facilityService.CreateFacility(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create facility", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetFacility godoc
// @Summary Get a facility by ID
// @Tags Facilities
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} dto.FacilityResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /facilities/{id} [get]
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid facility id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.facilityService.GetFacility(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateFacility godoc
// @Summary Update a facility's billing details
// @Tags Facilities
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param facility body dto.UpdateFacilityRequest true "Fields to update"
// @Success 200 {object} dto.FacilityResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /facilities/{id} [put]
func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid facility id").Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.facilityService.UpdateFacility(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to update facility", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListFacilities godoc
// @Summary List facilities
// @Tags Facilities
// @Produce json
// @Success 200 {object} dto.ListFacilitiesResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /facilities [get]
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	resp, err := h.facilityService.ListFacilities(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list facilities", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
