package service

import (
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLEnrollmentService(t *testing.T) (*EnrollmentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewOrderRepository(db),
		nil,
	), mock
}

func TestRecomputeProgressAfterCompletionIsNoOp(t *testing.T) {
	svc, mock := newSQLEnrollmentService(t)

	completedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	enrollment := &model.Enrollment{
		BaseModel:          model.BaseModel{ID: 11},
		StudentID:          3,
		CourseID:           7,
		Status:             model.EnrollmentCompleted,
		ProgressPercentage: 100,
		CompletedAt:        &completedAt,
	}

	// The stored counts no longer reach 100%, e.g. a mandatory item was
	// added after completion.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `section_items`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `?item_completions`?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	got, err := svc.RecomputeProgress(enrollment)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, got.Status)
	assert.Equal(t, 100, got.ProgressPercentage)
	assert.Equal(t, &completedAt, got.CompletedAt)

	// An enrollment already through the gate is never written back.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmOrderAbsorbsExistingEnrollment(t *testing.T) {
	svc, mock := newSQLEnrollmentService(t)

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "amount", "status"}).
			AddRow("3f1c9f0a-6a54-4d0e-9f6b-1a2b3c4d5e6f", 3, 7, 49.9, "pending"))
	mock.ExpectQuery("SELECT \\* FROM `courses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "is_published", "price"}).
			AddRow(7, "Go Basics", true, 49.9))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The student already enrolled through another path after ordering; the
	// unique (student, course) index rejects the second row and the callback
	// confirms against the existing enrollment.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `enrollments`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()
	mock.ExpectQuery("SELECT \\* FROM `enrollments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "progress_percentage"}).
			AddRow(11, 3, 7, "enrolled", 0))

	enrollment, err := svc.ConfirmOrder("3f1c9f0a-6a54-4d0e-9f6b-1a2b3c4d5e6f", "gw-12345")
	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, uint(11), enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
