package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReorderItemsAtomic(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `section_items` SET").
		WithArgs(0, sqlmock.AnyArg(), uint(10), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `section_items` SET").
		WithArgs(1, sqlmock.AnyArg(), uint(11), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReorderItems(1, []uint{10, 11})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderItemsUnknownIDRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `section_items` SET").
		WithArgs(0, sqlmock.AnyArg(), uint(10), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second item belongs to another section: zero rows touched.
	mock.ExpectExec("UPDATE `section_items` SET").
		WithArgs(1, sqlmock.AnyArg(), uint(99), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReorderItems(1, []uint{10, 99})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountMandatoryItems(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `section_items`").
		WithArgs(uint(7), true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountMandatoryItems(7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
