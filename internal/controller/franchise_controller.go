package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FranchiseController struct {
	FranchiseService *service.FranchiseService
}

func NewFranchiseController(franchiseService *service.FranchiseService) *FranchiseController {
	return &FranchiseController{FranchiseService: franchiseService}
}

// Create godoc
// @Summary Create a franchise
// @Tags franchises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.FranchiseRequest true "Franchise"
// @Success 201 {object} util.Response{data=model.Franchise}
// @Failure 409 {object} util.Response
// @Router /api/admin/franchises [post]
func (c *FranchiseController) Create(ctx *gin.Context) {
	var req service.FranchiseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	franchise, err := c.FranchiseService.Create(req)
	if err != nil {
		util.Conflict(ctx, err.Error())
		return
	}
	util.Created(ctx, franchise)
}

// Get godoc
// @Summary Get a franchise
// @Tags franchises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Franchise ID"
// @Success 200 {object} util.Response{data=model.Franchise}
// @Router /api/admin/franchises/{id} [get]
func (c *FranchiseController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	franchise, err := c.FranchiseService.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, franchise)
}

// Update godoc
// @Summary Update a franchise
// @Tags franchises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Franchise ID"
// @Param body body service.FranchiseRequest true "Franchise"
// @Success 200 {object} util.Response{data=model.Franchise}
// @Router /api/admin/franchises/{id} [put]
func (c *FranchiseController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.FranchiseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	franchise, err := c.FranchiseService.Update(id, req)
	if err != nil {
		if errors.Is(err, util.ErrFranchiseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, franchise)
}

// List godoc
// @Summary List franchises
// @Tags franchises
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/franchises [get]
func (c *FranchiseController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	franchises, total, err := c.FranchiseService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: franchises, Total: total, Page: page, Limit: limit})
}

// Stats godoc
// @Summary Tenant statistics
// @Description Counts of students, courses, enrollments, certificates and open tickets for the caller's tenant scope
// @Tags franchises
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=repository.FranchiseStats}
// @Router /api/admin/franchises/stats [get]
func (c *FranchiseController) Stats(ctx *gin.Context) {
	stats, err := c.FranchiseService.Stats(middleware.FranchiseIDFromContext(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
