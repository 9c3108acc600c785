// Package auth implements credential hashing and JWT issuance for
// TaskKeeper. Access and refresh tokens are stateless HS256 JWTs signed with
// one process-wide secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens so one cannot be
// replayed as the other.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the JWT payload. Email is only set on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"id"`
	Email  string    `json:"email,omitempty"`
	Kind   TokenKind `json:"typ"`
}

// TokenPair bundles an access token and a refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints and verifies tokens. It is immutable after construction and
// safe for concurrent use.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer copies secret so later changes to the caller's slice do not leak in.
func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Issuer{secret: s, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// IssueAccessToken encodes the user's id and email and expires after the
// access TTL.
func (i *Issuer) IssueAccessToken(user *models.User) (string, error) {
	return i.sign(Claims{UserID: user.ID, Email: user.Email, Kind: KindAccess}, user.ID, i.accessTTL)
}

// IssueRefreshToken encodes the user's id and expires after the refresh TTL.
func (i *Issuer) IssueRefreshToken(user *models.User) (string, error) {
	return i.sign(Claims{UserID: user.ID, Kind: KindRefresh}, user.ID, i.refreshTTL)
}

// IssuePair mints both tokens for user.
func (i *Issuer) IssuePair(user *models.User) (*TokenPair, error) {
	access, err := i.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := i.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken checks signature, expiry and kind of an access token.
func (i *Issuer) VerifyAccessToken(token string) (*Claims, error) {
	return i.verify(token, KindAccess)
}

// VerifyRefreshToken checks signature, expiry and kind of a refresh token.
func (i *Issuer) VerifyRefreshToken(token string) (*Claims, error) {
	return i.verify(token, KindRefresh)
}

func (i *Issuer) sign(claims Claims, subject string, ttl time.Duration) (string, error) {
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func (i *Issuer) verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrTokenMalformed
	default:
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
}
