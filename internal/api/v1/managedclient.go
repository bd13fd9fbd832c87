package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
)

type ManagedClientHandler struct {
	managedClientService service.ManagedClientService
	logger               *logger.Logger
}

func NewManagedClientHandler(managedClientService service.ManagedClientService, logger *logger.Logger) *ManagedClientHandler {
	return &ManagedClientHandler{
		managedClientService: managedClientService,
		logger:               logger,
	}
}

// CreateManagedClient godoc
// @Summary Register a managed client for a facility
// @Tags ManagedClients
// @Accept json
// @Produce json
// @Param client body dto.CreateManagedClientRequest true "Client details"
// @Success 201 {object} dto.ManagedClientResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /managed-clients [post]
func (h *ManagedClientHandler) CreateManagedClient(c *gin.Context) {
	var req dto.CreateManagedClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.managedClientService.CreateManagedClient(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create managed client", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetManagedClient godoc
// @Summary Get a managed client by ID
// @Tags ManagedClients
// @Produce json
// @Param id path string true "Managed client ID"
// @Success 200 {object} dto.ManagedClientResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /managed-clients/{id} [get]
func (h *ManagedClientHandler) GetManagedClient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid managed client id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.managedClientService.GetManagedClient(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListManagedClients godoc
// @Summary List a facility's managed clients
// @Tags ManagedClients
// @Produce json
// @Param facility_id query string true "Facility ID"
// @Success 200 {object} dto.ListManagedClientsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /managed-clients [get]
func (h *ManagedClientHandler) ListManagedClients(c *gin.Context) {
	facilityID := c.Query("facility_id")

	resp, err := h.managedClientService.ListManagedClients(c.Request.Context(), facilityID)
	if err != nil {
		h.logger.Errorw("failed to list managed clients", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
