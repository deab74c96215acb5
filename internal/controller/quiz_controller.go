package controller

import (
	"errors"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func (c *QuizController) handleQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrMaxAttemptsReached):
		util.Error(ctx, 422, "maximum number of attempts reached")
	case errors.Is(err, util.ErrAlreadyGraded):
		util.Conflict(ctx, "submission is already graded")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create a quiz in a course
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.QuizRequest true "Quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/instructor/courses/{id}/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizService.CreateQuiz(courseID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, quiz)
}

// Get godoc
// @Summary Quiz with its questions
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	quiz, questions, err := c.QuizService.GetQuiz(quizID)
	if err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz, "questions": questions})
}

// Update godoc
// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body service.QuizRequest true "Quiz fields"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/instructor/quizzes/{quizId} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizService.UpdateQuiz(quizID, req)
	if err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary Delete a quiz and its questions
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/quizzes/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	if err := c.QuizService.DeleteQuiz(quizID); err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListByCourse godoc
// @Summary Quizzes of a course
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	quizzes, err := c.QuizService.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// AddQuestion godoc
// @Summary Add a question to a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body service.QuizQuestionRequest true "Question"
// @Success 201 {object} util.Response{data=model.QuizQuestion}
// @Router /api/instructor/quizzes/{quizId}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	var req service.QuizQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuizService.AddQuestion(quizID, req)
	if err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Description Edits apply to future attempts only; past submission scores stay as recorded
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path int true "Question ID"
// @Param body body service.QuizQuestionRequest true "Question"
// @Success 200 {object} util.Response{data=model.QuizQuestion}
// @Router /api/instructor/questions/{questionId} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := uintParam(ctx, "questionId")
	if !ok {
		return
	}
	var req service.QuizQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuizService.UpdateQuestion(questionID, req)
	if err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param questionId path int true "Question ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/questions/{questionId} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := uintParam(ctx, "questionId")
	if !ok {
		return
	}
	if err := c.QuizService.DeleteQuestion(questionID); err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ReorderQuestions godoc
// @Summary Reorder the questions of a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body reorderRequest true "Ordered question ids"
// @Success 200 {object} util.Response
// @Router /api/instructor/quizzes/{quizId}/reorder [put]
func (c *QuizController) ReorderQuestions(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.QuizService.ReorderQuestions(quizID, req.OrderedIDs); err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Auto-gradable quizzes are scored immediately; descriptive or code answers wait for manual grading
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body service.QuizSubmissionRequest true "Answers keyed by question id"
// @Success 201 {object} util.Response{data=model.QuizSubmission}
// @Failure 422 {object} util.Response "attempt limit reached"
// @Router /api/quizzes/{quizId}/submissions [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	var req service.QuizSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.QuizService.SubmitQuiz(claims.UserID, quizID, req)
	if err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// Grade godoc
// @Summary Manually grade a submission
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submissionId path int true "Submission ID"
// @Param body body service.ManualGradeRequest true "Score"
// @Success 200 {object} util.Response{data=model.QuizSubmission}
// @Failure 409 {object} util.Response "already graded"
// @Router /api/instructor/quiz-submissions/{submissionId}/grade [post]
func (c *QuizController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	submissionID, ok := uintParam(ctx, "submissionId")
	if !ok {
		return
	}
	var req service.ManualGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.GradedBy = claims.UserID

	submission, err := c.QuizService.GradeSubmission(submissionID, req)
	if err != nil {
		c.handleQuizError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// ListSubmissions godoc
// @Summary Submissions of a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param status query string false "Filter by status (pending, graded)"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/instructor/quizzes/{quizId}/submissions [get]
func (c *QuizController) ListSubmissions(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	page, limit := pagination(ctx)
	submissions, total, err := c.QuizService.ListSubmissions(quizID, ctx.Query("status"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}

// MySubmissions godoc
// @Summary Own submissions for a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} util.Response{data=[]model.QuizSubmission}
// @Router /api/quizzes/{quizId}/submissions [get]
func (c *QuizController) MySubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	submissions, err := c.QuizService.ListStudentSubmissions(quizID, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}
