package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// StudentOverview godoc
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentDashboard}
// @Router /api/dashboard [get]
func (c *DashboardController) StudentOverview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	overview, err := c.DashboardService.StudentOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// CourseOverview godoc
// @Summary Course completion overview
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseOverview}
// @Router /api/instructor/courses/{id}/overview [get]
func (c *DashboardController) CourseOverview(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	overview, err := c.DashboardService.CourseOverview(courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, overview)
}

// AdminOverview godoc
// @Summary Admin dashboard counters
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=repository.FranchiseStats}
// @Router /api/admin/dashboard [get]
func (c *DashboardController) AdminOverview(ctx *gin.Context) {
	stats, err := c.DashboardService.AdminOverview(middleware.FranchiseIDFromContext(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
