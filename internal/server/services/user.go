// Package services contains server-side business logic. This file implements
// UserService: registration, login against stored argon2id hashes, and
// session issuance/revocation through the configured session store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/cryptox"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/sessions"
	"github.com/dmitrijs2005/recipebox/internal/shared"
)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and issue a session token
// - Logout: revoke a session token
// - ResolveToken: map a bearer token back to its user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
}

// NewUserService constructs a UserService using repositories and the session store.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store sessions.Store) *UserService {
	return &UserService{db: db, repomanager: m, sessions: store}
}

// dummyHash is verified against when the email is unknown, so the failure
// timing does not reveal whether the account exists.
var dummyHash, _ = cryptox.HashPassword([]byte("recipebox-timing-pad"))

// Register creates a new user with the given email and password. The email is
// normalized to lower case; the password is wiped after hashing. A duplicate
// email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer shared.WipeByteArray(password)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: models.NormalizeEmail(email), PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and, on success, issues a session token.
// Unknown email and wrong password produce the same common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email string, password []byte) (string, error) {
	defer shared.WipeByteArray(password)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(password, dummyHash)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Logout revokes the given session token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// ResolveToken maps a bearer token to its user. Absent, revoked, and expired
// tokens all yield common.ErrInvalidToken.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Token outlived the account. Treat as an invalid token.
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
