package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gamestore-backend/internal/domains/order/model"
	"gamestore-backend/internal/domains/order/repository"
	"gamestore-backend/internal/shared/apperror"
	"gamestore-backend/internal/shared/response"
)

// OrderHandler handles order read endpoints.
// Orders are created by the checkout finalize flow, never directly.
type OrderHandler struct {
	repo repository.OrderRepository
}

func NewOrderHandler(repo repository.OrderRepository) *OrderHandler {
	return &OrderHandler{repo: repo}
}

// ListOrders returns the authenticated user's orders
//
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := h.repo.ListOrdersByUserID(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, string(apperror.ErrCodeInternalError), "Internal server error", nil)
		return
	}

	totalPages := (total + limit - 1) / limit

	response.Success(c, http.StatusOK, "Orders listed", gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder returns one of the user's orders by ID
//
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid order ID", nil)
		return
	}

	order, err := h.repo.GetOrderByIDAndUserID(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFoundRow) {
			response.Error(c, http.StatusNotFound, string(model.ErrCodeOrderNotFound), "Order not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, string(apperror.ErrCodeInternalError), "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, "Order found", order)
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
