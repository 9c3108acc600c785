package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = &models.User{ID: "7b0c8f0e-2d6c-4a52-9d3c-1c4c1f3b9a10", Email: "a@b.com"}

func newTestIssuer(now time.Time) *Issuer {
	i := NewIssuer([]byte("super-secret"), 30*time.Minute, 20*time.Minute)
	i.now = func() time.Time { return now }
	return i
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now()
	i := newTestIssuer(now)

	tok, err := i.IssueAccessToken(testUser)
	require.NoError(t, err)

	claims, err := i.VerifyAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Equal(t, testUser.ID, claims.Subject)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, now.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now()
	i := newTestIssuer(now)

	tok, err := i.IssueRefreshToken(testUser)
	require.NoError(t, err)

	claims, err := i.VerifyRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Empty(t, claims.Email)
	assert.Equal(t, now.Add(20*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestIssuePair(t *testing.T) {
	t.Parallel()

	pair, err := newTestIssuer(time.Now()).IssuePair(testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-time.Hour)
	i := newTestIssuer(issuedAt)
	access, err := i.IssueAccessToken(testUser)
	require.NoError(t, err)
	refresh, err := i.IssueRefreshToken(testUser)
	require.NoError(t, err)

	i.now = time.Now

	_, err = i.VerifyAccessToken(access)
	assert.True(t, errors.Is(err, common.ErrTokenExpired), "got %v", err)

	_, err = i.VerifyRefreshToken(refresh)
	assert.True(t, errors.Is(err, common.ErrTokenExpired), "got %v", err)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), time.Hour, time.Hour).IssueRefreshToken(testUser)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("wrong-secret"), time.Hour, time.Hour).VerifyRefreshToken(tok)
	assert.True(t, errors.Is(err, common.ErrTokenBadSignature), "got %v", err)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(time.Now())
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := i.VerifyRefreshToken(tok)
		assert.True(t, errors.Is(err, common.ErrTokenMalformed), "token %q: got %v", tok, err)
	}
}

func TestVerify_KindMismatch(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(time.Now())
	access, err := i.IssueAccessToken(testUser)
	require.NoError(t, err)
	refresh, err := i.IssueRefreshToken(testUser)
	require.NoError(t, err)

	_, err = i.VerifyRefreshToken(access)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))

	_, err = i.VerifyAccessToken(refresh)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           testUser.ID,
		Kind:             KindRefresh,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = newTestIssuer(time.Now()).VerifyRefreshToken(tok)
	assert.True(t, errors.Is(err, common.ErrTokenBadSignature), "got %v", err)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: testUser.ID, Kind: KindRefresh}).
		SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = newTestIssuer(time.Now()).VerifyRefreshToken(tok)
	require.Error(t, err)
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))
}

func TestNewIssuer_CopiesSecret(t *testing.T) {
	t.Parallel()

	secret := []byte("mutable")
	i := NewIssuer(secret, time.Hour, time.Hour)
	tok, err := i.IssueAccessToken(testUser)
	require.NoError(t, err)

	copy(secret, strings.Repeat("x", len(secret)))

	_, err = i.VerifyAccessToken(tok)
	assert.NoError(t, err)
}
