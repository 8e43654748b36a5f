package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const credentialsDetail = "Could not validate credentials"

type AuthService struct {
	Repo     *repo.GormRepo
	TokenTTL time.Duration
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	taken, err := s.Repo.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if taken {
		return nil, newError(ErrConflict, "Username or email already registered")
	}

	salt, err := hash.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	pw, err := hash.HashPassword(req.Password, salt)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username:     req.Username,
		Name:         req.Name,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: pw,
		Salt:         salt,
		Roles:        []string{models.RoleUser},
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if repo.IsDuplicate(err) {
			return nil, newError(ErrConflict, "Username or email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and issues a fresh opaque token.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*models.UserToken, error) {
	u, err := s.Repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, newError(ErrUnauthorized, "Incorrect username or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password, u.Salt) {
		return nil, newError(ErrUnauthorized, "Incorrect username or password")
	}

	tok := &models.UserToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ExpiredAt: s.Repo.DB.NowFunc().Add(s.TokenTTL),
	}
	if err := s.Repo.CreateToken(ctx, tok); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	tok.User = u
	return tok, nil
}

// Authenticate resolves a bearer credential. With requireFresh set, a token
// past its expiry is rejected as well.
func (s *AuthService) Authenticate(ctx context.Context, raw string, requireFresh bool) (*models.UserToken, error) {
	tok, err := s.Repo.GetToken(ctx, raw)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, newError(ErrUnauthorized, credentialsDetail)
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	if tok.User == nil {
		return nil, newError(ErrUnauthorized, credentialsDetail)
	}
	if requireFresh && tok.IsExpired(s.Repo.DB.NowFunc()) {
		return nil, newError(ErrUnauthorized, credentialsDetail)
	}
	return tok, nil
}
