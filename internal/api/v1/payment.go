package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateSetupIntent godoc
// @Summary Create a setup intent for saving a payment method
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.CreateSetupIntentRequest true "Setup details"
// @Success 200 {object} dto.SetupIntentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/setup-intent [post]
func (h *PaymentHandler) CreateSetupIntent(c *gin.Context) {
	var req dto.CreateSetupIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.CreateSetupIntent(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create setup intent", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreatePaymentIntent godoc
// @Summary Charge a saved payment method
// @Description One charge attempt per request, no automatic retries
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentIntentRequest true "Charge details"
// @Success 200 {object} dto.PaymentIntentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req dto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create payment intent", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPaymentIntent godoc
// @Summary Verify the terminal state of a payment intent
// @Tags Payments
// @Produce json
// @Param id path string true "Payment intent ID"
// @Success 200 {object} dto.PaymentIntentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/payment-intent/{id}/verify [get]
func (h *PaymentHandler) VerifyPaymentIntent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid payment intent id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.VerifyPaymentIntent(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorw("failed to verify payment intent", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
