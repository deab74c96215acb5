package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type AssignmentService struct {
	Repo       *repository.AssignmentRepository
	Enrollment *EnrollmentService
}

func NewAssignmentService(repo *repository.AssignmentRepository, enrollment *EnrollmentService) *AssignmentService {
	return &AssignmentService{Repo: repo, Enrollment: enrollment}
}

type AssignmentRequest struct {
	Title                 *string    `json:"title"`
	Description           *string    `json:"description"`
	Deadline              *time.Time `json:"deadline"`
	LatePenaltyPercentage *int       `json:"latePenaltyPercentage"`
	IsPublished           *bool      `json:"isPublished"`
}

func (s *AssignmentService) CreateAssignment(courseID uint, req AssignmentRequest) (*model.Assignment, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	assignment := &model.Assignment{
		CourseID: courseID,
		Title:    *req.Title,
		MaxGrade: 100,
	}
	applyAssignmentRequest(assignment, req)

	if assignment.LatePenaltyPercentage < 0 || assignment.LatePenaltyPercentage > 100 {
		return nil, errors.New("latePenaltyPercentage must be between 0 and 100")
	}

	if err := s.Repo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) UpdateAssignment(assignmentID uint, req AssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	applyAssignmentRequest(assignment, req)

	if assignment.LatePenaltyPercentage < 0 || assignment.LatePenaltyPercentage > 100 {
		return nil, errors.New("latePenaltyPercentage must be between 0 and 100")
	}

	if err := s.Repo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func applyAssignmentRequest(assignment *model.Assignment, req AssignmentRequest) {
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.Deadline != nil {
		assignment.Deadline = req.Deadline
	}
	if req.LatePenaltyPercentage != nil {
		assignment.LatePenaltyPercentage = *req.LatePenaltyPercentage
	}
	if req.IsPublished != nil {
		assignment.IsPublished = *req.IsPublished
	}
}

func (s *AssignmentService) DeleteAssignment(assignmentID uint) error {
	return s.Repo.Delete(assignmentID)
}

func (s *AssignmentService) GetAssignment(assignmentID uint) (*model.Assignment, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}
	return assignment, nil
}

type AssignmentSubmissionRequest struct {
	Content       string `json:"content" binding:"required"`
	AttachmentURL string `json:"attachmentUrl"`
}

// Submit records the student's work. Re-submission before grading
// overwrites the content and clears any prior review state.
func (s *AssignmentService) Submit(studentID, assignmentID uint, req AssignmentSubmissionRequest) (*model.AssignmentSubmission, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}
	if !assignment.IsPublished {
		return nil, util.ErrAssignmentNotFound
	}

	now := time.Now()

	existing, err := s.Repo.FindSubmissionByStudent(assignmentID, studentID)
	if err == nil {
		existing.Content = req.Content
		existing.AttachmentURL = req.AttachmentURL
		existing.SubmittedAt = now
		existing.Grade = nil
		existing.RawGrade = nil
		existing.Feedback = ""
		existing.GradedAt = nil
		existing.GradedBy = nil
		if err := s.Repo.UpdateSubmission(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	submission := &model.AssignmentSubmission{
		AssignmentID:  assignmentID,
		StudentID:     studentID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
		SubmittedAt:   now,
	}
	if err := s.Repo.CreateSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

type GradeRequest struct {
	Grade    int    `json:"grade" binding:"min=0,max=100"`
	Feedback string `json:"feedback"`
	GradedBy uint   `json:"-"`
}

// Grade applies the raw grade and, exactly once, the late penalty based on
// when the work was submitted relative to the deadline.
func (s *AssignmentService) Grade(submissionID uint, req GradeRequest) (*model.AssignmentSubmission, error) {
	submission, err := s.Repo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, util.ErrSubmissionNotFound
	}

	assignment, err := s.Repo.FindByID(submission.AssignmentID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}

	final := ApplyLatePenalty(req.Grade, assignment.Deadline, submission.SubmittedAt, assignment.LatePenaltyPercentage)

	now := time.Now()
	raw := req.Grade
	submission.RawGrade = &raw
	submission.Grade = &final
	submission.Feedback = req.Feedback
	submission.GradedAt = &now
	submission.GradedBy = &req.GradedBy

	if err := s.Repo.UpdateSubmission(submission); err != nil {
		return nil, err
	}

	// A graded mandatory assignment counts toward course progress.
	if s.Enrollment != nil {
		_ = s.Enrollment.CompleteAssignmentItem(submission.StudentID, assignment.CourseID, assignment.ID)
	}

	return submission, nil
}

func (s *AssignmentService) ListByCourse(courseID uint) ([]model.Assignment, error) {
	return s.Repo.ListByCourse(courseID)
}

func (s *AssignmentService) ListSubmissions(assignmentID uint, gradedOnly bool, page, limit int) ([]model.AssignmentSubmission, int64, error) {
	return s.Repo.ListSubmissions(assignmentID, gradedOnly, page, limit)
}

func (s *AssignmentService) GetStudentSubmission(assignmentID, studentID uint) (*model.AssignmentSubmission, error) {
	submission, err := s.Repo.FindSubmissionByStudent(assignmentID, studentID)
	if err != nil {
		return nil, util.ErrSubmissionNotFound
	}
	return submission, nil
}
