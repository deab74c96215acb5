package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// OrderController exposes the order list and the payment confirmation
// callback. The payment gateway itself is external; only its webhook lands
// here.
type OrderController struct {
	EnrollmentService *service.EnrollmentService
}

func NewOrderController(enrollmentService *service.EnrollmentService) *OrderController {
	return &OrderController{EnrollmentService: enrollmentService}
}

// MyOrders godoc
// @Summary List own orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Order}
// @Router /api/orders [get]
func (c *OrderController) MyOrders(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	orders, err := c.EnrollmentService.ListOrdersByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, orders)
}

// List godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/orders [get]
func (c *OrderController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	orders, total, err := c.EnrollmentService.ListOrders(middleware.FranchiseIDFromContext(ctx), ctx.Query("status"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: orders, Total: total, Page: page, Limit: limit})
}

type paymentCallbackRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	Reference string `json:"reference" binding:"required"`
}

// PaymentCallback godoc
// @Summary Payment gateway callback
// @Description Marks the order paid and creates the enrollment; repeated callbacks are idempotent
// @Tags orders
// @Accept json
// @Produce json
// @Param body body paymentCallbackRequest true "Gateway payload"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/payments/callback [post]
func (c *OrderController) PaymentCallback(ctx *gin.Context) {
	var req paymentCallbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.ConfirmOrder(req.OrderID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrOrderNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, "student is already enrolled")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}
