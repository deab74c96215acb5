package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type enrollRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Free courses enroll immediately; paid courses return a pending order
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body enrollRequest true "Course to enroll in"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req enrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, order, err := c.EnrollmentService.Enroll(claims.UserID, req.CourseID, middleware.FranchiseIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseNotPublished):
			util.BadRequest(ctx, "course is not published")
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, "already enrolled in this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if order != nil {
		util.Created(ctx, gin.H{"order": order})
		return
	}
	util.Created(ctx, gin.H{"enrollment": enrollment})
}

// MyEnrollments godoc
// @Summary List own enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	enrollments, err := c.EnrollmentService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// CourseEnrollments godoc
// @Summary Enrollments of a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/instructor/courses/{id}/enrollments [get]
func (c *EnrollmentController) CourseEnrollments(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := pagination(ctx)
	enrollments, total, err := c.EnrollmentService.ListByCourse(courseID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: enrollments, Total: total, Page: page, Limit: limit})
}

// CompleteItem godoc
// @Summary Mark a section item complete
// @Description Re-runs the progress computation; completing the last mandatory item completes the course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param itemId path int true "Item ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/items/{itemId}/complete [post]
func (c *EnrollmentController) CompleteItem(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	itemID, ok := uintParam(ctx, "itemId")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.CompleteItem(claims.UserID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrItemNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.BadRequest(ctx, "not enrolled in this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// Progress godoc
// @Summary Progress in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *EnrollmentController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, completions, err := c.EnrollmentService.GetProgress(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"enrollment": enrollment, "completions": completions})
}

type bulkCompleteRequest struct {
	EnrollmentIDs []uint `json:"enrollmentIds" binding:"required,min=1"`
}

// BulkComplete godoc
// @Summary Force-complete enrollments
// @Description Admin migration aid; marks enrollments completed and issues certificates
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body bulkCompleteRequest true "Enrollment ids"
// @Success 200 {object} util.Response
// @Router /api/admin/enrollments/bulk-complete [post]
func (c *EnrollmentController) BulkComplete(ctx *gin.Context) {
	var req bulkCompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.EnrollmentService.BulkComplete(req.EnrollmentIDs); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
