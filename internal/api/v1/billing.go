package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
)

type BillingHandler struct {
	billingService service.BillingService
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewBillingHandler(billingService service.BillingService, invoiceService service.InvoiceService, logger *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// GetMonthlyBilling godoc
// @Summary Get monthly billing for a facility
// @Description Aggregate one facility month into per-client bills
// @Tags Billing
// @Produce json
// @Param facility_id query string true "Facility ID"
// @Param year query int true "Billing year"
// @Param month query int true "Billing month (1-12)"
// @Param client_id query string false "Restrict to one client identity"
// @Param status query string false "Restrict to one billing status"
// @Success 200 {object} dto.BillingResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing [get]
func (h *BillingHandler) GetMonthlyBilling(c *gin.Context) {
	var req dto.BillingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.billingService.GetMonthlyBilling(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to build monthly billing", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetClientSummary godoc
// @Summary Get per-client billing summary over a date range
// @Tags Billing
// @Produce json
// @Param facility_id query string true "Facility ID"
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param client_id query string false "Restrict to one client identity"
// @Success 200 {object} dto.ClientSummaryResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing/client-summary [get]
func (h *BillingHandler) GetClientSummary(c *gin.Context) {
	var req dto.ClientSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.billingService.GetClientSummary(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to build client summary", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateInvoice godoc
// @Summary Persist a single trip invoice
// @Description Creating the same client and period twice returns 409
// @Tags Billing
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /billing [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.CreateSingleTripInvoice(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create invoice", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
