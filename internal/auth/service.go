package auth

import (
	"context"
	"time"

	"github.com/aulaeco/recicla-backend/internal/users"
	"github.com/aulaeco/recicla-backend/pkg/auth"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/errors"
	"github.com/aulaeco/recicla-backend/pkg/logger"
)

// Service authenticates accounts and mints access tokens.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// PasswordVerifier checks a plaintext password against an encoded hash.
// security.VerifyPassword satisfies it.
type PasswordVerifier func(password, encoded string) (bool, error)

type service struct {
	repo   users.Repository
	jwt    config.JWTConfig
	verify PasswordVerifier
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(repo users.Repository, jwt config.JWTConfig, verify PasswordVerifier, logg *logger.Logger, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "auth service requires a user repository")
	}
	if verify == nil {
		return nil, errors.New(errors.CodeInternal, "auth service requires a password verifier")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "auth service requires a logger")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, jwt: jwt, verify: verify, logg: logg, now: now}, nil
}

// Login resolves the account and mints a token. Unknown usernames and wrong
// passwords return the same error so the endpoint leaks nothing.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	invalid := errors.New(errors.CodeUnauthorized, "invalid credentials")

	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if appErr := errors.As(err); appErr != nil && appErr.Code() == errors.CodeNotFound {
			return nil, invalid
		}
		return nil, err
	}

	ok, err := s.verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "verifying password")
	}
	if !ok {
		s.logg.Warn(s.logg.WithField(ctx, "username", req.Username), "login rejected")
		return nil, invalid
	}

	token, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}

	return &LoginResponse{
		AccessToken: token,
		Role:        user.Role,
		User:        LoginUser{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}
