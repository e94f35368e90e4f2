package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gamestore-backend/internal/domains/coupon/model"
	"gamestore-backend/internal/domains/coupon/service"
	"gamestore-backend/internal/shared/apperror"
	"gamestore-backend/internal/shared/response"
)

// AdminHandler handles admin coupon management endpoints
type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(couponService service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: couponService}
}

// CreateCoupon creates a new coupon
//
// POST /api/v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), err.Error(), nil)
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Coupon created", coupon)
}

// ListCoupons lists coupons with status filter and pagination
//
// GET /api/v1/admin/coupons
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	var filter model.ListCouponsFilter

	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid query parameters", nil)
		return
	}

	if err := filter.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), err.Error(), nil)
		return
	}

	coupons, total, err := h.service.ListCoupons(c.Request.Context(), &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	response.Success(c, http.StatusOK, "Coupons listed", gin.H{
		"coupons": coupons,
		"pagination": gin.H{
			"page":       filter.Page,
			"limit":      filter.Limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetCoupon returns a single coupon
//
// GET /api/v1/admin/coupons/:id
func (h *AdminHandler) GetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	coupon, err := h.service.GetCoupon(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Coupon found", coupon)
}

// UpdateCoupon updates an existing coupon
//
// PUT /api/v1/admin/coupons/:id
func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), err.Error(), nil)
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Coupon updated", coupon)
}

// DeleteCoupon deactivates a coupon (soft delete)
//
// DELETE /api/v1/admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Coupon deactivated", nil)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, string(apperror.ErrCodeValidationFailed), "Invalid coupon ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
