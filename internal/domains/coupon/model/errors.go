package model

import (
	"errors"
	"net/http"

	"gamestore-backend/internal/shared/apperror"
)

var (
	ErrCouponNotFoundRow = errors.New("coupon not found")
	ErrDuplicateCode     = errors.New("coupon code already exists")
)

const (
	// Coupon validation errors
	ErrCodeCouponNotFound    apperror.ErrorCode = "COUPON_NOT_FOUND"    // 404
	ErrCodeCouponInactive    apperror.ErrorCode = "COUPON_INACTIVE"     // 400
	ErrCodeCouponExpired     apperror.ErrorCode = "COUPON_EXPIRED"      // 400
	ErrCodeCouponUsageLimit  apperror.ErrorCode = "COUPON_USAGE_LIMIT"  // 400
	ErrCodeCouponMinPurchase apperror.ErrorCode = "COUPON_MIN_PURCHASE" // 400

	// Admin operation errors
	ErrCodeCouponDuplicateCode apperror.ErrorCode = "VAL_DUPLICATE_CODE" // 400
	ErrCodeCouponExpiryInPast  apperror.ErrorCode = "VAL_EXPIRY_IN_PAST" // 400
)

// Predefined errors.
// Messages are distinct per rule so the client can show actionable feedback.
var (
	ErrCouponNotFound = &apperror.AppError{
		Code:       ErrCodeCouponNotFound,
		Message:    "Coupon code not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrCouponInactive = &apperror.AppError{
		Code:       ErrCodeCouponInactive,
		Message:    "Coupon is no longer active",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponExpired = &apperror.AppError{
		Code:       ErrCodeCouponExpired,
		Message:    "Coupon has expired",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponUsageLimit = &apperror.AppError{
		Code:       ErrCodeCouponUsageLimit,
		Message:    "Coupon usage limit reached",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponMinPurchase = &apperror.AppError{
		Code:       ErrCodeCouponMinPurchase,
		Message:    "Cart total does not meet the coupon minimum purchase amount",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponDuplicateCode = &apperror.AppError{
		Code:       ErrCodeCouponDuplicateCode,
		Message:    "A coupon with this code already exists",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponExpiryInPast = &apperror.AppError{
		Code:       ErrCodeCouponExpiryInPast,
		Message:    "Expiry date must be in the future",
		HTTPStatus: http.StatusBadRequest,
	}
)
