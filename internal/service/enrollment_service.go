package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	Repo         *repository.EnrollmentRepository
	CourseRepo   *repository.CourseRepository
	OrderRepo    *repository.OrderRepository
	Certificates *CertificateService
}

func NewEnrollmentService(
	repo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	orderRepo *repository.OrderRepository,
	certificates *CertificateService,
) *EnrollmentService {
	return &EnrollmentService{
		Repo:         repo,
		CourseRepo:   courseRepo,
		OrderRepo:    orderRepo,
		Certificates: certificates,
	}
}

// Enroll creates the enrollment for a free course, or a pending order for a
// paid one. The (student, course) unique index keeps enrollment single even
// under concurrent requests.
func (s *EnrollmentService) Enroll(studentID uint, courseID uint, franchiseID *uint) (*model.Enrollment, *model.Order, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, nil, util.ErrCourseNotFound
	}
	if !course.IsPublished {
		return nil, nil, util.ErrCourseNotPublished
	}

	if course.Price > 0 {
		order := &model.Order{
			StudentID:   studentID,
			CourseID:    courseID,
			FranchiseID: franchiseID,
			Amount:      course.Price,
			Currency:    course.Currency,
			Status:      model.OrderPending,
		}
		if err := s.OrderRepo.Create(order); err != nil {
			return nil, nil, err
		}
		return nil, order, nil
	}

	enrollment, err := s.createEnrollment(studentID, course, franchiseID)
	if err != nil {
		return nil, nil, err
	}
	return enrollment, nil, nil
}

// ConfirmOrder marks an order paid and enrolls the student. Invoked by the
// payment callback endpoint; the gateway itself lives outside this service.
func (s *EnrollmentService) ConfirmOrder(orderID string, reference string) (*model.Enrollment, error) {
	order, err := s.OrderRepo.FindByID(orderID)
	if err != nil {
		return nil, util.ErrOrderNotFound
	}
	if order.Status == model.OrderPaid {
		// Repeated callbacks are no-ops.
		enrollment, err := s.Repo.FindByStudentAndCourse(order.StudentID, order.CourseID)
		if err != nil {
			return nil, util.ErrEnrollmentNotFound
		}
		return enrollment, nil
	}

	course, err := s.CourseRepo.FindByID(order.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	now := time.Now()
	order.Status = model.OrderPaid
	order.PaidAt = &now
	order.Reference = reference
	if err := s.OrderRepo.Update(order); err != nil {
		return nil, err
	}

	enrollment, err := s.createEnrollment(order.StudentID, course, order.FranchiseID)
	if errors.Is(err, util.ErrAlreadyEnrolled) {
		// The student enrolled through another path after ordering; confirm
		// against the existing enrollment instead of failing the callback.
		return s.Repo.FindByStudentAndCourse(order.StudentID, order.CourseID)
	}
	return enrollment, err
}

func (s *EnrollmentService) createEnrollment(studentID uint, course *model.Course, franchiseID *uint) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{
		StudentID:   studentID,
		CourseID:    course.ID,
		FranchiseID: franchiseID,
		Status:      model.EnrollmentEnrolled,
	}
	if err := s.Repo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListOrdersByStudent(studentID uint) ([]model.Order, error) {
	return s.OrderRepo.ListByStudent(studentID)
}

func (s *EnrollmentService) ListOrders(franchiseID *uint, status string, page, limit int) ([]model.Order, int64, error) {
	return s.OrderRepo.List(franchiseID, status, page, limit)
}

func (s *EnrollmentService) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	return s.Repo.ListByStudent(studentID)
}

func (s *EnrollmentService) ListByCourse(courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	return s.Repo.ListByCourse(courseID, page, limit)
}

// CompleteItem marks one section item done for the student and re-runs the
// completion gate. Repeating a completed item is a no-op.
func (s *EnrollmentService) CompleteItem(studentID, itemID uint) (*model.Enrollment, error) {
	item, err := s.CourseRepo.FindItemByID(itemID)
	if err != nil {
		return nil, util.ErrItemNotFound
	}

	enrollment, err := s.Repo.FindByStudentAndCourse(studentID, item.CourseID)
	if err != nil {
		return nil, util.ErrEnrollmentNotFound
	}

	return s.completeItemForEnrollment(enrollment, item.ID)
}

// CompleteQuizItem records quiz completion against the section item that
// references the quiz, if any. Courses may embed quizzes as optional
// standalone content, so a missing item is not an error.
func (s *EnrollmentService) CompleteQuizItem(studentID, courseID, quizID uint) error {
	enrollment, err := s.Repo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		return nil
	}

	items, err := s.CourseRepo.ListCourseItems(courseID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ItemType == model.ItemQuiz && items[i].RefID == quizID {
			_, err = s.completeItemForEnrollment(enrollment, items[i].ID)
			return err
		}
	}
	return nil
}

// CompleteAssignmentItem is the assignment counterpart of CompleteQuizItem.
func (s *EnrollmentService) CompleteAssignmentItem(studentID, courseID, assignmentID uint) error {
	enrollment, err := s.Repo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		return nil
	}

	items, err := s.CourseRepo.ListCourseItems(courseID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ItemType == model.ItemAssignment && items[i].RefID == assignmentID {
			_, err = s.completeItemForEnrollment(enrollment, items[i].ID)
			return err
		}
	}
	return nil
}

func (s *EnrollmentService) completeItemForEnrollment(enrollment *model.Enrollment, itemID uint) (*model.Enrollment, error) {
	completion := &model.ItemCompletion{
		EnrollmentID: enrollment.ID,
		ItemID:       itemID,
		CompletedAt:  time.Now(),
	}
	if err := s.Repo.CreateItemCompletion(completion); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Already completed; fall through to the gate, which is idempotent.
	}

	return s.RecomputeProgress(enrollment)
}

// RecomputeProgress applies the completion gate: progress is completed
// mandatory items over total mandatory items, rounded down, and the
// enrollment flips to completed exactly once when it reaches 100.
func (s *EnrollmentService) RecomputeProgress(enrollment *model.Enrollment) (*model.Enrollment, error) {
	total, err := s.CourseRepo.CountMandatoryItems(enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Repo.CountCompletedMandatoryItems(enrollment.ID, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	progress := ComputeProgress(completed, total)

	if enrollment.Status == model.EnrollmentCompleted {
		// Already through the gate: recomputation only confirms stored state.
		return enrollment, nil
	}

	enrollment.ProgressPercentage = progress
	if progress >= 100 {
		now := time.Now()
		enrollment.Status = model.EnrollmentCompleted
		enrollment.CompletedAt = &now
	} else if progress > 0 {
		enrollment.Status = model.EnrollmentInProgress
	}

	if err := s.Repo.Update(enrollment); err != nil {
		return nil, err
	}

	if enrollment.Status == model.EnrollmentCompleted && s.Certificates != nil {
		if _, err := s.Certificates.IssueForEnrollment(enrollment); err != nil {
			// Issuance failures never fail the completion itself; the
			// background sweep retries missing certificates.
			logger.Log.Warn("certificate issuance failed",
				zap.Uint("enrollmentId", enrollment.ID), zap.Error(err))
		}
	}

	return enrollment, nil
}

// BulkComplete force-completes enrollments in one transaction, then issues
// any missing certificates.
func (s *EnrollmentService) BulkComplete(enrollmentIDs []uint) error {
	now := time.Now()
	if err := s.Repo.BulkComplete(enrollmentIDs, now); err != nil {
		return err
	}

	if s.Certificates != nil {
		for _, id := range enrollmentIDs {
			enrollment, err := s.Repo.FindByID(id)
			if err != nil {
				continue
			}
			_, _ = s.Certificates.IssueForEnrollment(enrollment)
		}
	}
	return nil
}

func (s *EnrollmentService) GetProgress(studentID, courseID uint) (*model.Enrollment, []model.ItemCompletion, error) {
	enrollment, err := s.Repo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		return nil, nil, util.ErrEnrollmentNotFound
	}
	completions, err := s.Repo.ListItemCompletions(enrollment.ID)
	return enrollment, completions, err
}
