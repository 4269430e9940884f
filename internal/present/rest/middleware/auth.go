package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/warebase/warebase/internal/domain"
	"github.com/warebase/warebase/internal/present/rest/presenter"
)

var tracer = otel.Tracer("auth")

// Authenticator resolves a bearer token value to an identity. The IAM
// service plugs in its local auth service; the inventory service plugs
// in the IAM HTTP client.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, domain.AuthToken, error)
}

// Level is the authentication a route declares it needs.
type Level int

const (
	LevelNone Level = iota
	LevelToken
	LevelSuperuser
)

type AuthMiddleware struct {
	auth   Authenticator
	scheme string
}

func NewAuthMiddleware(auth Authenticator, scheme string) *AuthMiddleware {
	if scheme == "" {
		scheme = "Token"
	}
	return &AuthMiddleware{auth: auth, scheme: scheme}
}

// Require enforces the declared level before dispatch. On success the
// resolved user and token ride the request context; on failure the
// handler never runs.
func (m *AuthMiddleware) Require(level Level) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if level == LevelNone {
				return next(c)
			}

			ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.Require")
			defer span.End()

			value, err := m.credential(c.Request().Header.Get("Authorization"))
			if err != nil {
				span.RecordError(err)
				return presenter.Unauthorized(c)
			}

			user, token, err := m.auth.Authenticate(ctx, value)
			if err != nil {
				span.RecordError(errors.Wrap(err, "AuthMiddleware.Require: authenticate failed"))
				return presenter.Unauthorized(c)
			}

			if level == LevelSuperuser && !user.IsSuperuser {
				span.RecordError(domain.ErrForbidden)
				return presenter.Forbidden(c)
			}

			ctx = context.WithValue(ctx, domain.RequesterCtxKey, user)
			ctx = context.WithValue(ctx, domain.AuthTokenCtxKey, token)
			span.SetAttributes(attribute.String("RequesterId", user.ID))

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func (m *AuthMiddleware) credential(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	split := strings.Split(header, " ")
	if len(split) != 2 {
		return "", fmt.Errorf("invalid authorization header")
	}

	if split[0] != m.scheme {
		return "", fmt.Errorf("unsupported authorization scheme")
	}

	return split[1], nil
}
