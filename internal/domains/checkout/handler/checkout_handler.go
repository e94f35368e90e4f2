package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gamestore-backend/internal/domains/checkout/model"
	"gamestore-backend/internal/domains/checkout/service"
	"gamestore-backend/internal/shared/apperror"
	"gamestore-backend/internal/shared/response"
)

// CheckoutHandler handles checkout session endpoints
type CheckoutHandler struct {
	service service.ServiceInterface
}

func NewCheckoutHandler(checkoutService service.ServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{service: checkoutService}
}

// CreateSession creates a checkout session from the client's cart snapshot
//
// POST /api/v1/checkout
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req model.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), err.Error(), nil)
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Checkout session created", session)
}

// MarkPaid records the payment confirmation on a session
//
// PUT /api/v1/checkout/:id/pay
func (h *CheckoutHandler) MarkPaid(c *gin.Context) {
	sessionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req model.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), err.Error(), nil)
		return
	}

	session, err := h.service.MarkPaid(c.Request.Context(), sessionID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Checkout session marked as paid", session)
}

// Finalize converts a paid session into an order
//
// POST /api/v1/checkout/:id/finalize
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	sessionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Body is optional: finalizing without a coupon needs no payload
	var req model.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid request body", nil)
		return
	}

	order, err := h.service.Finalize(c.Request.Context(), sessionID, req.AppliedCouponCode)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Order created", order)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid checkout session ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// handleError maps service errors onto the response envelope
func handleError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		response.Error(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	response.Error(c, http.StatusInternalServerError, string(apperror.ErrCodeInternalError), "Internal server error", nil)
}
