package service

import (
	"encoding/json"
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type QuizService struct {
	Repo       *repository.QuizRepository
	Enrollment *EnrollmentService
}

func NewQuizService(repo *repository.QuizRepository, enrollment *EnrollmentService) *QuizService {
	return &QuizService{Repo: repo, Enrollment: enrollment}
}

type QuizRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	TimeLimit       *int    `json:"timeLimit"`
	PassingScore    *int    `json:"passingScore"`
	AttemptsAllowed *int    `json:"attemptsAllowed"`
	AutoGrade       *bool   `json:"autoGrade"`
	IsPublished     *bool   `json:"isPublished"`
}

func (s *QuizService) CreateQuiz(courseID uint, req QuizRequest) (*model.Quiz, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	quiz := &model.Quiz{
		CourseID:     courseID,
		Title:        *req.Title,
		PassingScore: 60,
		AutoGrade:    true,
	}
	applyQuizRequest(quiz, req)

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	applyQuizRequest(quiz, req)

	if err := s.Repo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func applyQuizRequest(quiz *model.Quiz, req QuizRequest) {
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.AttemptsAllowed != nil {
		quiz.AttemptsAllowed = *req.AttemptsAllowed
	}
	if req.AutoGrade != nil {
		quiz.AutoGrade = *req.AutoGrade
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}
}

func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.Repo.Delete(quizID)
}

func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, []model.QuizQuestion, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if err != nil {
		return nil, nil, util.ErrQuizNotFound
	}
	qs, err := s.Repo.ListQuestions(quizID)
	return quiz, qs, err
}

type QuizQuestionRequest struct {
	QuestionType   model.QuestionType `json:"questionType" binding:"required"`
	Content        string             `json:"content" binding:"required"`
	Options        json.RawMessage    `json:"options"`
	CorrectAnswers json.RawMessage    `json:"correctAnswers"`
	Points         int                `json:"points"`
	Explanation    string             `json:"explanation"`
	Order          int                `json:"order"`
}

func (s *QuizService) AddQuestion(quizID uint, req QuizQuestionRequest) (*model.QuizQuestion, error) {
	if _, err := s.Repo.FindByID(quizID); err != nil {
		return nil, util.ErrQuizNotFound
	}

	points := req.Points
	if points <= 0 {
		points = 1
	}

	q := &model.QuizQuestion{
		QuizID:         quizID,
		QuestionType:   req.QuestionType,
		Content:        req.Content,
		Options:        req.Options,
		CorrectAnswers: req.CorrectAnswers,
		Points:         points,
		Explanation:    req.Explanation,
		Order:          req.Order,
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateQuestion edits a question going forward. Stored submission scores
// are never recomputed.
func (s *QuizService) UpdateQuestion(questionID uint, req QuizQuestionRequest) (*model.QuizQuestion, error) {
	q, err := s.Repo.FindQuestionByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	q.QuestionType = req.QuestionType
	q.Content = req.Content
	q.Options = req.Options
	q.CorrectAnswers = req.CorrectAnswers
	if req.Points > 0 {
		q.Points = req.Points
	}
	q.Explanation = req.Explanation
	q.Order = req.Order

	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) DeleteQuestion(questionID uint) error {
	return s.Repo.DeleteQuestion(questionID)
}

func (s *QuizService) ReorderQuestions(quizID uint, orderedIDs []uint) error {
	if err := s.Repo.ReorderQuestions(quizID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return nil
}

type QuizSubmissionRequest struct {
	Answers map[uint]model.SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitQuiz records one attempt. The attempt cap is checked before any row
// is created; at the cap the submission is rejected outright. The
// count-then-insert pair is not serialized, so a concurrent double-submit
// can exceed the cap by one attempt.
func (s *QuizService) SubmitQuiz(studentID, quizID uint, req QuizSubmissionRequest) (*model.QuizSubmission, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotFound
	}

	if quiz.AttemptsAllowed > 0 {
		count, err := s.Repo.CountSubmissions(quizID, studentID)
		if err != nil {
			return nil, err
		}
		if count >= int64(quiz.AttemptsAllowed) {
			return nil, util.ErrMaxAttemptsReached
		}
	}

	questions, err := s.Repo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	submission := &model.QuizSubmission{
		QuizID:      quizID,
		StudentID:   studentID,
		Answers:     answersJSON,
		SubmittedAt: time.Now(),
		Status:      model.SubmissionPending,
	}

	if quiz.AutoGrade {
		result := ScoreQuiz(questions, req.Answers)
		submission.EarnedPoints = result.EarnedPoints
		submission.TotalPoints = result.TotalPoints

		if result.ManualPending {
			// Partial auto-grade: descriptive/code answers keep the final
			// score open until an instructor grades them.
			monitoring.QuizSubmissions.WithLabelValues("manual_pending").Inc()
		} else {
			score := result.Score
			now := time.Now()
			submission.Score = &score
			submission.Passed = score >= quiz.PassingScore
			submission.Status = model.SubmissionGraded
			submission.GradedAt = &now
			monitoring.QuizSubmissions.WithLabelValues("auto_graded").Inc()
		}
	} else {
		monitoring.QuizSubmissions.WithLabelValues("manual_pending").Inc()
	}

	if err := s.Repo.CreateSubmission(submission); err != nil {
		return nil, err
	}

	// A graded, passed quiz counts toward course progress when the quiz is
	// referenced by a mandatory section item.
	if submission.Status == model.SubmissionGraded && submission.Passed && s.Enrollment != nil {
		_ = s.Enrollment.CompleteQuizItem(studentID, quiz.CourseID, quizID)
	}

	return submission, nil
}

type ManualGradeRequest struct {
	Score    int  `json:"score" binding:"min=0,max=100"`
	GradedBy uint `json:"-"`
}

// GradeSubmission records a manual grade for a pending submission.
func (s *QuizService) GradeSubmission(submissionID uint, req ManualGradeRequest) (*model.QuizSubmission, error) {
	submission, err := s.Repo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, util.ErrSubmissionNotFound
	}
	if submission.Status == model.SubmissionGraded {
		return nil, util.ErrAlreadyGraded
	}

	quiz, err := s.Repo.FindByID(submission.QuizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	now := time.Now()
	score := req.Score
	submission.Score = &score
	submission.Passed = score >= quiz.PassingScore
	submission.Status = model.SubmissionGraded
	submission.GradedAt = &now
	submission.GradedBy = &req.GradedBy

	if err := s.Repo.UpdateSubmission(submission); err != nil {
		return nil, err
	}
	monitoring.QuizSubmissions.WithLabelValues("manually_graded").Inc()

	if submission.Passed && s.Enrollment != nil {
		_ = s.Enrollment.CompleteQuizItem(submission.StudentID, quiz.CourseID, quiz.ID)
	}

	return submission, nil
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	return s.Repo.ListByCourse(courseID)
}

func (s *QuizService) ListSubmissions(quizID uint, status string, page, limit int) ([]model.QuizSubmission, int64, error) {
	return s.Repo.ListSubmissions(quizID, status, page, limit)
}

func (s *QuizService) ListStudentSubmissions(quizID, studentID uint) ([]model.QuizSubmission, error) {
	return s.Repo.ListSubmissionsByStudent(quizID, studentID)
}
