package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQuizRejectsAtAttemptCap(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db), nil)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "course_id", "title", "is_published", "auto_grade", "passing_score", "attempts_allowed"}).
			AddRow(5, 7, "Final quiz", true, true, 60, 2))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `quiz_submissions`").
		WithArgs(uint(5), uint(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	_, err := svc.SubmitQuiz(9, 5, QuizSubmissionRequest{
		Answers: map[uint]model.SubmittedAnswer{1: {Value: "A"}},
	})
	require.ErrorIs(t, err, util.ErrMaxAttemptsReached)

	// At the cap the submission is rejected before any row is written.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitQuizUnlimitedAttemptsSkipsCount(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db), nil)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "course_id", "title", "is_published", "auto_grade", "passing_score", "attempts_allowed"}).
			AddRow(5, 7, "Practice quiz", true, true, 60, 0))

	mock.ExpectQuery("SELECT \\* FROM `quiz_questions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "question_type", "points"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `quiz_submissions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	submission, err := svc.SubmitQuiz(9, 5, QuizSubmissionRequest{
		Answers: map[uint]model.SubmittedAnswer{},
	})
	require.NoError(t, err)
	require.NotNil(t, submission)
	assert.NoError(t, mock.ExpectationsWereMet())
}
