package service

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificateNumberFormat(t *testing.T) {
	s := &CertificateService{Config: &config.CertificateConfig{NumberPrefix: "CERT"}}

	pattern := regexp.MustCompile(fmt.Sprintf(`^CERT-%d-[0-9A-F]{8}$`, time.Now().Year()))
	for i := 0; i < 20; i++ {
		number := s.newCertificateNumber()
		assert.Regexp(t, pattern, number)
	}
}

func TestNewCertificateNumberUnique(t *testing.T) {
	s := &CertificateService{Config: &config.CertificateConfig{NumberPrefix: "CERT"}}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := s.newCertificateNumber()
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}
}

func TestVerificationURL(t *testing.T) {
	s := &CertificateService{Config: &config.CertificateConfig{
		NumberPrefix:  "CERT",
		VerifyBaseURL: "https://lms.example.com/api/",
	}}

	cert := &model.Certificate{
		CertificateNumber: "CERT-2026-A1B2C3D4",
		StudentID:         42,
		CourseID:          7,
	}
	url := s.verificationURL(cert)

	assert.Equal(t, "https://lms.example.com/api/certificates/verify/CERT-2026-A1B2C3D4?student=42&course=7", url)
}

func TestIssueForEnrollmentPreconditions(t *testing.T) {
	s := &CertificateService{Config: &config.CertificateConfig{NumberPrefix: "CERT"}}
	now := time.Now()

	tests := []struct {
		name       string
		enrollment model.Enrollment
	}{
		{"not completed", model.Enrollment{
			Status: model.EnrollmentInProgress, CompletedAt: &now, ProgressPercentage: 100,
		}},
		{"no completion time", model.Enrollment{
			Status: model.EnrollmentCompleted, ProgressPercentage: 100,
		}},
		{"progress below 100", model.Enrollment{
			Status: model.EnrollmentCompleted, CompletedAt: &now, ProgressPercentage: 99,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Preconditions fail before any repository access, so the nil
			// repos are never touched.
			cert, err := s.IssueForEnrollment(&tt.enrollment)
			require.NoError(t, err)
			assert.Nil(t, cert)
		})
	}
}

func TestRenderCertificatePDF(t *testing.T) {
	cert := &model.Certificate{
		CertificateNumber: "CERT-2026-A1B2C3D4",
		VerificationURL:   "https://lms.example.com/api/certificates/verify/CERT-2026-A1B2C3D4",
		IssuedAt:          time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
	}

	pdf, err := RenderCertificatePDF(cert, "Ada Lovelace", "Intro to Analysis")
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func newSQLCertificateService(t *testing.T) (*CertificateService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		nil, nil,
		&config.CertificateConfig{NumberPrefix: "CERT", VerifyBaseURL: "https://lms.example.com/api"},
	), mock
}

func completedEnrollment() *model.Enrollment {
	completedAt := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	return &model.Enrollment{
		BaseModel:          model.BaseModel{ID: 11},
		StudentID:          3,
		CourseID:           7,
		Status:             model.EnrollmentCompleted,
		ProgressPercentage: 100,
		CompletedAt:        &completedAt,
	}
}

func TestIssueForEnrollmentSkipsDisabledCourse(t *testing.T) {
	svc, mock := newSQLCertificateService(t)

	mock.ExpectQuery("SELECT \\* FROM `courses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "certificates_enabled"}).
			AddRow(7, "Go Basics", false))

	cert, err := svc.IssueForEnrollment(completedEnrollment())
	require.NoError(t, err)
	assert.Nil(t, cert)

	// Disabled courses are skipped without touching the certificates table.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueForEnrollmentReturnsExistingRow(t *testing.T) {
	svc, mock := newSQLCertificateService(t)

	mock.ExpectQuery("SELECT \\* FROM `courses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "certificates_enabled"}).
			AddRow(7, "Go Basics", true))
	mock.ExpectQuery("SELECT \\* FROM `certificates`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "certificate_number"}).
			AddRow(21, 3, 7, "CERT-2026-A1B2C3D4"))

	cert, err := svc.IssueForEnrollment(completedEnrollment())
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, "CERT-2026-A1B2C3D4", cert.CertificateNumber)

	// A second invocation never inserts a second row.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueForEnrollmentAbsorbsDuplicateKey(t *testing.T) {
	svc, mock := newSQLCertificateService(t)

	mock.ExpectQuery("SELECT \\* FROM `courses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "certificates_enabled"}).
			AddRow(7, "Go Basics", true))
	mock.ExpectQuery("SELECT \\* FROM `certificates`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// A concurrent issuer wins the insert race; the unique (student, course)
	// index rejects ours and we resolve to the winner's row.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `certificates`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()
	mock.ExpectQuery("SELECT \\* FROM `certificates`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "certificate_number"}).
			AddRow(21, 3, 7, "CERT-2026-DEADBEEF"))

	cert, err := svc.IssueForEnrollment(completedEnrollment())
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, "CERT-2026-DEADBEEF", cert.CertificateNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
