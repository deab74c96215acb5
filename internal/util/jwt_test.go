package util

import (
	"testing"
	"time"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	franchiseID := uint(3)
	user := &model.User{
		Name:        "Test Student",
		Email:       "student@example.com",
		Role:        model.Student,
		FranchiseID: &franchiseID,
	}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "student@example.com", claims.Email)
	require.NotNil(t, claims.FranchiseID)
	assert.Equal(t, uint(3), *claims.FranchiseID)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Admin}
	user.ID = 1

	token, err := GenerateJWT(user, "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}
