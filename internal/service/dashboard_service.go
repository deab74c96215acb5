package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type DashboardService struct {
	Enrollments  *repository.EnrollmentRepository
	Certificates *repository.CertificateRepository
	Courses      *repository.CourseRepository
	Tickets      *repository.TicketRepository
	Franchises   *repository.FranchiseRepository
}

func NewDashboardService(
	enrollments *repository.EnrollmentRepository,
	certificates *repository.CertificateRepository,
	courses *repository.CourseRepository,
	tickets *repository.TicketRepository,
	franchises *repository.FranchiseRepository,
) *DashboardService {
	return &DashboardService{
		Enrollments:  enrollments,
		Certificates: certificates,
		Courses:      courses,
		Tickets:      tickets,
		Franchises:   franchises,
	}
}

type StudentDashboard struct {
	Enrollments  []model.Enrollment  `json:"enrollments"`
	Certificates []model.Certificate `json:"certificates"`
	OpenTickets  int                 `json:"openTickets"`
}

func (s *DashboardService) StudentOverview(studentID uint) (*StudentDashboard, error) {
	enrollments, err := s.Enrollments.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	certificates, err := s.Certificates.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.Tickets.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	open := 0
	for i := range tickets {
		if tickets[i].Status != model.TicketClosed {
			open++
		}
	}
	return &StudentDashboard{
		Enrollments:  enrollments,
		Certificates: certificates,
		OpenTickets:  open,
	}, nil
}

type CourseOverview struct {
	Course         *model.Course `json:"course"`
	Enrolled       int64         `json:"enrolled"`
	Completed      int64         `json:"completed"`
	CompletionRate float64       `json:"completionRate"`
}

// CourseOverview summarizes enrollment and completion for one course.
func (s *DashboardService) CourseOverview(courseID uint) (*CourseOverview, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	enrollments, total, err := s.Enrollments.ListByCourse(courseID, 1, 10000)
	if err != nil {
		return nil, err
	}
	var completed int64
	for i := range enrollments {
		if enrollments[i].Status == model.EnrollmentCompleted {
			completed++
		}
	}

	overview := &CourseOverview{Course: course, Enrolled: total, Completed: completed}
	if total > 0 {
		overview.CompletionRate = float64(completed) / float64(total)
	}
	return overview, nil
}

// AdminOverview returns the tenant-scoped counters plus open ticket volume.
func (s *DashboardService) AdminOverview(franchiseID *uint) (*repository.FranchiseStats, error) {
	return s.Franchises.Stats(franchiseID)
}
