// Package services contains server-side business logic: registration and
// login with token issuance (UserService) and owner-scoped task operations
// (TaskService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// LoginType selects the credential presented to Login.
type LoginType string

const (
	LoginEmail   LoginType = "email"
	LoginRefresh LoginType = "refresh"
)

// RegisterInput is a new account as submitted by the client.
type RegisterInput struct {
	FirstName string   `json:"fname" validate:"notblank"`
	LastName  string   `json:"lname" validate:"notblank"`
	Email     string   `json:"email" validate:"email"`
	Password  string   `json:"password" validate:"min=6,alphanum"`
	Age       *float64 `json:"age" validate:"omitnil,gte=0"`
}

// LoginRequest is either an email/password pair or a refresh token,
// depending on Type.
type LoginRequest struct {
	Type         LoginType
	Email        string
	Password     string
	RefreshToken string
}

// UpdateUserInput lists profile changes; nil fields stay as they are.
type UpdateUserInput struct {
	FirstName *string  `json:"fname" validate:"omitnil,notblank"`
	LastName  *string  `json:"lname" validate:"omitnil,notblank"`
	Email     *string  `json:"email" validate:"omitnil,email"`
	Password  *string  `json:"password" validate:"omitnil,min=6,alphanum"`
	Age       *float64 `json:"age" validate:"omitnil,gte=0"`
}

type emailCredentials struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// UserService provides registration, login and profile operations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
}

// NewUserService constructs a UserService. The issuer holds the signing
// secret; the service never sees it.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer) *UserService {
	return &UserService{db: db, repomanager: m, issuer: issuer}
}

// Register validates input, hashes the password and stores the new user.
// An email that is already registered is a validation error.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	email := in.Email
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, emailTaken()
	case !errors.Is(err, common.ErrorNotFound):
		return nil, storeError("lookup email", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, storeError("hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		Age:          in.Age,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, storeError("create user", err)
	}
	return created, nil
}

// Login authenticates with an email/password pair or a refresh token and
// returns the user with a new token pair.
//
// Outcomes: ErrorValidation for a bad request shape, ErrorNotFound for an
// unknown email, ErrorUnauthorized for a wrong password or any refresh
// failure, ErrorInternal otherwise.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*models.AuthenticatedUser, error) {
	switch req.Type {
	case LoginEmail:
		return s.loginWithEmail(ctx, req.Email, req.Password)
	case LoginRefresh:
		return s.loginWithRefreshToken(ctx, req.RefreshToken)
	case "":
		return nil, common.NewValidationError("type", "type is required")
	default:
		return nil, common.NewValidationError("type", "type must be email or refresh")
	}
}

func (s *UserService) loginWithEmail(ctx context.Context, email, password string) (*models.AuthenticatedUser, error) {
	if err := validateInput(emailCredentials{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError("lookup email", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s: %v", common.ErrorInternal, user.ID, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.authenticated(user)
}

func (s *UserService) loginWithRefreshToken(ctx context.Context, refreshToken string) (*models.AuthenticatedUser, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is not defined", common.ErrorUnauthorized)
	}

	claims, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	// The token may outlive its user.
	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storeError("lookup user", err)
	}

	return s.authenticated(user)
}

func (s *UserService) authenticated(user *models.User) (*models.AuthenticatedUser, error) {
	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &models.AuthenticatedUser{User: *user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Profile returns the authenticated caller's own record.
func (s *UserService) Profile(ctx context.Context, callerID string) (*models.User, error) {
	return s.Get(ctx, callerID)
}

// Get returns any user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return list, nil
}

// Update changes the caller's own profile. Targeting anyone else is
// reported as not found. A new password is hashed before it is stored.
func (s *UserService) Update(ctx context.Context, callerID, id string, in UpdateUserInput) (*models.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if id != callerID || !validID(id) {
		return nil, common.ErrorNotFound
	}

	patch := models.UserPatch{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Age: in.Age}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, storeError("hash password", err)
		}
		patch.PasswordHash = &hash
	}

	repo := s.repomanager.Users(s.db)
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	user, err := repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, storeError("update user", err)
	}
	return user, nil
}

// Delete removes the caller's own account together with all of its tasks.
// Targeting anyone else is reported as not found.
func (s *UserService) Delete(ctx context.Context, callerID, id string) (*models.User, error) {
	if id != callerID || !validID(id) {
		return nil, common.ErrorNotFound
	}

	var deleted *models.User
	err := s.repomanager.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Tasks(tx).DeleteByOwner(ctx, id); err != nil {
			return err
		}
		var err error
		deleted, err = s.repomanager.Users(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeError("delete user", err)
	}
	return deleted, nil
}

func emailTaken() error {
	return common.NewValidationError("email", "email is already registered")
}
