package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftdesk/internal/service"
	"draftdesk/internal/upi"
)

// PaymentHandler handles payment link endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// UPIDeeplink handles POST /api/v1/upi/deeplink
func (h *PaymentHandler) UPIDeeplink(c *gin.Context) {
	var req upi.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "upi_id and payee_name are required; amount must be a number")
		return
	}

	link, err := h.paymentService.BuildUPILink(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, link)
}
