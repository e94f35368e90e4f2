package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gamestore-backend/internal/domains/coupon/model"
	"gamestore-backend/internal/domains/coupon/service"
	"gamestore-backend/internal/shared/apperror"
	"gamestore-backend/internal/shared/response"
)

// PublicHandler handles user-facing coupon endpoints
type PublicHandler struct {
	service service.ServiceInterface
}

func NewPublicHandler(couponService service.ServiceInterface) *PublicHandler {
	return &PublicHandler{service: couponService}
}

// ValidateCoupon checks a coupon code against the client's cart total
//
// POST /api/v1/coupons/validate
func (h *PublicHandler) ValidateCoupon(c *gin.Context) {
	var req model.ValidateCouponRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), err.Error(), nil)
		return
	}

	result, err := h.service.ValidateCoupon(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Coupon validated", result)
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
