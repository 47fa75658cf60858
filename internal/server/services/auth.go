// Package services contains server-side business logic. This file implements
// AuthService, which handles admin login and the credential update flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/auth"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/knowledgehub/internal/server/validation"
)

// InvalidCredentialsMessage is the only thing a failed login ever reports.
const InvalidCredentialsMessage = "Invalid username or password"

// LoginInput is the login form.
type LoginInput struct {
	Username string `form:"username" validate:"min=3" msg:"Username must be at least 3 characters"`
	Password string `form:"password" validate:"min=6" msg:"Password must be at least 6 characters"`
}

// CredentialsInput is the admin credential update form.
type CredentialsInput struct {
	CurrentPassword string `form:"current_password" validate:"min=1" msg:"Current password is required"`
	Username        string `form:"username" validate:"min=3,max=50" msg_min:"Username must be at least 3 characters" msg_max:"Username too long"`
	NewPassword     string `form:"new_password" validate:"min=6" msg:"Password must be at least 6 characters"`
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

// AuthService verifies admin credentials and issues session tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *AuthService {
	return &AuthService{db: db, repomanager: m, tokens: tokens}
}

// Login checks the credentials and returns a signed session token.
//
// Input shape problems come back as *common.ValidationError. An unknown
// username and a wrong password both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	admin, err := s.repomanager.Admins(s.db).GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error fetching admin: %w", err)
	}

	if !auth.VerifyPassword(in.Password, admin.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		return "", fmt.Errorf("error issuing session token: %w", err)
	}
	return token, nil
}

// UpdateCredentials replaces the username and password of adminID after
// re-checking the current password. A wrong current password is reported
// as a validation error on current_password.
//
// The caller's existing session token stays valid until it expires; there
// is no server-side revocation.
func (s *AuthService) UpdateCredentials(ctx context.Context, adminID int64, in CredentialsInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if len(in.NewPassword) > auth.MaxPasswordBytes {
		return common.NewValidationError("new_password", "Password too long")
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)

		admin, err := repo.GetByID(ctx, adminID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error fetching admin: %w", err)
		}

		if !auth.VerifyPassword(in.CurrentPassword, admin.PasswordHash) {
			return common.NewValidationError("current_password", "Current password is incorrect")
		}

		hash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return err
		}

		if err := repo.UpdateCredentials(ctx, admin.ID, in.Username, hash); err != nil {
			return fmt.Errorf("error updating credentials: %w", err)
		}
		return nil
	})
}
