package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_VerifiesAndSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret1")
	require.NoError(t, err)
	h2, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", h1, "stored value must never be the raw password")
	assert.NotEqual(t, h1, h2, "salt must differ between calls")

	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	for _, h := range []string{h1, h2} {
		ok, err := CheckPassword("secret1", h)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret1")
	require.NoError(t, err)

	for _, candidate := range []string{"secret2", "", "Secret1", "secret1 "} {
		ok, err := CheckPassword(candidate, h)
		require.NoError(t, err)
		assert.False(t, ok, "candidate %q", candidate)
	}
}

func TestCheckPassword_MalformedHashFailsClosed(t *testing.T) {
	t.Parallel()

	for _, stored := range []string{"", "secret1", "$2a$10$short"} {
		ok, err := CheckPassword("secret1", stored)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, common.ErrMalformedHash), "stored %q: got %v", stored, err)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("a", 73))
	assert.True(t, errors.Is(err, common.ErrorValidation))
}
