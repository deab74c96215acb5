package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const verifyCacheTTL = 10 * time.Minute

type CertificateService struct {
	Repo           *repository.CertificateRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	Storage        *StorageService
	Redis          *redis.Client
	Config         *config.CertificateConfig
}

func NewCertificateService(
	repo *repository.CertificateRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
	rdb *redis.Client,
	cfg *config.CertificateConfig,
) *CertificateService {
	return &CertificateService{
		Repo:           repo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		Storage:        storage,
		Redis:          rdb,
		Config:         cfg,
	}
}

// IssueForEnrollment creates the certificate for a completed enrollment.
// Idempotent: an existing row, or a duplicate-key violation from a
// concurrent issuer, both resolve to the already-issued certificate.
// Courses with certificates disabled are skipped, not retried.
func (s *CertificateService) IssueForEnrollment(enrollment *model.Enrollment) (*model.Certificate, error) {
	if enrollment.Status != model.EnrollmentCompleted ||
		enrollment.CompletedAt == nil ||
		enrollment.ProgressPercentage < 100 {
		return nil, nil
	}

	course, err := s.CourseRepo.FindByID(enrollment.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.CertificatesEnabled {
		monitoring.CertificatesSkipped.WithLabelValues("disabled").Inc()
		return nil, nil
	}

	if existing, err := s.Repo.FindByStudentAndCourse(enrollment.StudentID, enrollment.CourseID); err == nil {
		return existing, nil
	}

	certificate := &model.Certificate{
		StudentID:   enrollment.StudentID,
		CourseID:    enrollment.CourseID,
		FranchiseID: enrollment.FranchiseID,
		IssuedAt:    *enrollment.CompletedAt,
	}

	// Number collisions are detected by the unique constraint and retried
	// with a fresh suffix. A (student, course) duplicate means another
	// issuer won the race; resolve to its row.
	for attempt := 0; attempt < 3; attempt++ {
		certificate.CertificateNumber = s.newCertificateNumber()
		certificate.VerificationURL = s.verificationURL(certificate)

		err = s.Repo.Create(certificate)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if existing, findErr := s.Repo.FindByStudentAndCourse(enrollment.StudentID, enrollment.CourseID); findErr == nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()

	if fileURL, renderErr := s.renderAndStore(certificate, course); renderErr != nil {
		logger.Log.Warn("certificate pdf render failed",
			zap.String("number", certificate.CertificateNumber), zap.Error(renderErr))
	} else {
		certificate.FileURL = fileURL
		if updateErr := s.Repo.DB.Save(certificate).Error; updateErr != nil {
			logger.Log.Warn("certificate file url update failed", zap.Error(updateErr))
		}
	}

	return certificate, nil
}

func (s *CertificateService) newCertificateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("%s-%d-%s", s.Config.NumberPrefix, time.Now().Year(), suffix)
}

func (s *CertificateService) verificationURL(certificate *model.Certificate) string {
	return fmt.Sprintf("%s/certificates/verify/%s?student=%d&course=%d",
		strings.TrimRight(s.Config.VerifyBaseURL, "/"),
		certificate.CertificateNumber,
		certificate.StudentID,
		certificate.CourseID,
	)
}

func (s *CertificateService) renderAndStore(certificate *model.Certificate, course *model.Course) (string, error) {
	student, err := s.UserRepo.FindByID(certificate.StudentID)
	if err != nil {
		return "", err
	}

	pdfBytes, err := RenderCertificatePDF(certificate, student.Name, course.Title)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("certificates/%s.pdf", certificate.CertificateNumber)
	return s.Storage.Upload(context.Background(), filename,
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)), util.CertificateContentType)
}

// IssueMissing is the background sweep: it issues certificates for completed
// enrollments that have none, behaving exactly like the request-path issuer.
func (s *CertificateService) IssueMissing() (int, error) {
	enrollments, err := s.EnrollmentRepo.ListCompletedWithoutCertificate(100)
	if err != nil {
		return 0, err
	}

	issued := 0
	for i := range enrollments {
		certificate, err := s.IssueForEnrollment(&enrollments[i])
		if err != nil {
			logger.Log.Error("certificate sweep issuance failed",
				zap.Uint("enrollmentId", enrollments[i].ID), zap.Error(err))
			continue
		}
		if certificate != nil {
			issued++
		}
	}
	return issued, nil
}

// VerificationResult is the public payload of the verify endpoint.
type VerificationResult struct {
	CertificateNumber string    `json:"certificateNumber"`
	StudentName       string    `json:"studentName"`
	CourseTitle       string    `json:"courseTitle"`
	IssuedAt          time.Time `json:"issuedAt"`
}

// Verify resolves a certificate number, caching hits in redis.
func (s *CertificateService) Verify(number string) (*VerificationResult, error) {
	cacheKey := "certificate:verify:" + number

	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var result VerificationResult
			if json.Unmarshal([]byte(cached), &result) == nil {
				return &result, nil
			}
		}
	}

	certificate, err := s.Repo.FindByNumber(number)
	if err != nil {
		return nil, util.ErrCertificateNotFound
	}

	result := &VerificationResult{
		CertificateNumber: certificate.CertificateNumber,
		IssuedAt:          certificate.IssuedAt,
	}
	if certificate.Student != nil {
		result.StudentName = certificate.Student.Name
	}
	if certificate.Course != nil {
		result.CourseTitle = certificate.Course.Title
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(result); err == nil {
			s.Redis.Set(context.Background(), cacheKey, payload, verifyCacheTTL)
		}
	}

	return result, nil
}

func (s *CertificateService) ListByStudent(studentID uint) ([]model.Certificate, error) {
	return s.Repo.ListByStudent(studentID)
}

func (s *CertificateService) List(franchiseID *uint, page, limit int) ([]model.Certificate, int64, error) {
	return s.Repo.List(franchiseID, page, limit)
}
