package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSubmissions(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQuizRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `quiz_submissions`").
		WithArgs(uint(5), uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountSubmissions(5, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
