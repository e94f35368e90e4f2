package model

import (
	"errors"
	"net/http"

	"gamestore-backend/internal/shared/apperror"
)

var ErrSessionNotFoundRow = errors.New("checkout session not found")

const (
	ErrCodeSessionNotFound      apperror.ErrorCode = "CHECKOUT_NOT_FOUND"              // 404
	ErrCodeAlreadyFinalized     apperror.ErrorCode = "CHECKOUT_ALREADY_FINALIZED"      // 400
	ErrCodeNotPaid              apperror.ErrorCode = "CHECKOUT_NOT_PAID"               // 400
	ErrCodeEmptyItems           apperror.ErrorCode = "CHECKOUT_EMPTY_ITEMS"            // 400
	ErrCodeInvalidPaymentStatus apperror.ErrorCode = "CHECKOUT_INVALID_PAYMENT_STATUS" // 400
)

var (
	ErrSessionNotFound = &apperror.AppError{
		Code:       ErrCodeSessionNotFound,
		Message:    "Checkout session not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrAlreadyFinalized = &apperror.AppError{
		Code:       ErrCodeAlreadyFinalized,
		Message:    "Checkout session has already been finalized",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNotPaid = &apperror.AppError{
		Code:       ErrCodeNotPaid,
		Message:    "Checkout session has not been paid",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrEmptyItems = &apperror.AppError{
		Code:       ErrCodeEmptyItems,
		Message:    "Checkout session has no items",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidPaymentStatus = &apperror.AppError{
		Code:       ErrCodeInvalidPaymentStatus,
		Message:    "Payment status must be 'paid'",
		HTTPStatus: http.StatusBadRequest,
	}
)
