package controller

import (
	"errors"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

func (c *AssignmentController) handleAssignmentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create an assignment in a course
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.AssignmentRequest true "Assignment"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /api/instructor/courses/{id}/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	assignment, err := c.AssignmentService.CreateAssignment(courseID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, assignment)
}

// Get godoc
// @Summary Get an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{assignmentId} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	assignmentID, ok := uintParam(ctx, "assignmentId")
	if !ok {
		return
	}
	assignment, err := c.AssignmentService.GetAssignment(assignmentID)
	if err != nil {
		c.handleAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Update godoc
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Param body body service.AssignmentRequest true "Assignment fields"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/instructor/assignments/{assignmentId} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	assignmentID, ok := uintParam(ctx, "assignmentId")
	if !ok {
		return
	}
	var req service.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	assignment, err := c.AssignmentService.UpdateAssignment(assignmentID, req)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary Delete an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/assignments/{assignmentId} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	assignmentID, ok := uintParam(ctx, "assignmentId")
	if !ok {
		return
	}
	if err := c.AssignmentService.DeleteAssignment(assignmentID); err != nil {
		c.handleAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListByCourse godoc
// @Summary Assignments of a course
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
func (c *AssignmentController) ListByCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	assignments, err := c.AssignmentService.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Submit godoc
// @Summary Submit assignment work
// @Description Resubmitting before grading replaces the previous submission and clears review state
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Param body body service.AssignmentSubmissionRequest true "Submission"
// @Success 201 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/assignments/{assignmentId}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	assignmentID, ok := uintParam(ctx, "assignmentId")
	if !ok {
		return
	}
	var req service.AssignmentSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.AssignmentService.Submit(claims.UserID, assignmentID, req)
	if err != nil {
		c.handleAssignmentError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// MySubmission godoc
// @Summary Own submission for an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/assignments/{assignmentId}/submissions/mine [get]
func (c *AssignmentController) MySubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	assignmentID, ok := uintParam(ctx, "assignmentId")
	if !ok {
		return
	}
	submission, err := c.AssignmentService.GetStudentSubmission(assignmentID, claims.UserID)
	if err != nil {
		c.handleAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// Grade godoc
// @Summary Grade a submission
// @Description Stores the raw grade and the final grade after any late penalty
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submissionId path int true "Submission ID"
// @Param body body service.GradeRequest true "Grade and feedback"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/instructor/assignment-submissions/{submissionId}/grade [post]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	submissionID, ok := uintParam(ctx, "submissionId")
	if !ok {
		return
	}
	var req service.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.GradedBy = claims.UserID

	submission, err := c.AssignmentService.Grade(submissionID, req)
	if err != nil {
		c.handleAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// ListSubmissions godoc
// @Summary Submissions of an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param assignmentId path int true "Assignment ID"
// @Param graded query bool false "Only graded submissions"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/instructor/assignments/{assignmentId}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	assignmentID, ok := uintParam(ctx, "assignmentId")
	if !ok {
		return
	}
	page, limit := pagination(ctx)
	gradedOnly := ctx.Query("graded") == "true"
	submissions, total, err := c.AssignmentService.ListSubmissions(assignmentID, gradedOnly, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}
