package service

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/warebase/warebase/internal/domain"
)

var tracer = otel.Tracer("auth")

// TokenRepository looks up issued tokens by value.
type TokenRepository interface {
	Get(ctx context.Context, key string) (domain.AuthToken, error)
}

// UserRepository resolves token owners.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// AuthService resolves bearer token values against the local token and
// user stores. The IAM service uses it directly; other services reach
// the same logic through the /authenticate endpoint.
type AuthService struct {
	tokens TokenRepository
	users  UserRepository
}

func NewAuthService(tokens TokenRepository, users UserRepository) *AuthService {
	return &AuthService{tokens: tokens, users: users}
}

// Authenticate resolves a token value to its owning user. Every failure
// collapses to domain.ErrUnauthorized; the cause is recorded on the span
// only, never surfaced to the caller.
func (s *AuthService) Authenticate(ctx context.Context, value string) (domain.User, domain.AuthToken, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Authenticate")
	defer span.End()

	token, err := s.tokens.Get(ctx, value)
	if err != nil {
		span.RecordError(errors.Wrap(err, "AuthService.Authenticate: token lookup failed"))
		return domain.User{}, domain.AuthToken{}, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		span.RecordError(errors.Wrap(err, "AuthService.Authenticate: owner lookup failed"))
		return domain.User{}, domain.AuthToken{}, domain.ErrUnauthorized
	}

	span.SetAttributes(attribute.String("RequesterId", user.ID))
	return user, token, nil
}
