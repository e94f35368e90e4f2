package model

import (
	"errors"
	"net/http"

	"gamestore-backend/internal/shared/apperror"
)

var ErrOrderNotFoundRow = errors.New("order not found")

const (
	ErrCodeOrderNotFound apperror.ErrorCode = "ORDER_NOT_FOUND" // 404
)

var ErrOrderNotFound = &apperror.AppError{
	Code:       ErrCodeOrderNotFound,
	Message:    "Order not found",
	HTTPStatus: http.StatusNotFound,
}
