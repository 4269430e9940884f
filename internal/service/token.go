package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/warebase/warebase/internal/domain"
)

const (
	tokenBytes       = 32
	maxIssueAttempts = 3
)

// TokenStore persists newly issued tokens.
type TokenStore interface {
	Create(ctx context.Context, token domain.AuthToken) error
}

// TokenIssuer mints opaque session tokens. Each call produces a fresh
// row; prior tokens for the same user stay valid.
type TokenIssuer struct {
	tokens TokenStore
}

func NewTokenIssuer(tokens TokenStore) *TokenIssuer {
	return &TokenIssuer{tokens: tokens}
}

// Issue generates a random token value, persists it for userID and
// returns the row. A primary-key collision retries with new entropy.
func (s *TokenIssuer) Issue(ctx context.Context, userID string) (domain.AuthToken, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		buf := make([]byte, tokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return domain.AuthToken{}, errors.Wrap(err, "TokenIssuer.Issue: entropy read failed")
		}

		now := time.Now().UTC()
		token := domain.AuthToken{
			Key:       hex.EncodeToString(buf),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := s.tokens.Create(ctx, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return domain.AuthToken{}, errors.Wrap(err, "TokenIssuer.Issue: create failed")
		}
	}
	return domain.AuthToken{}, fmt.Errorf("token collision persisted after %d attempts", maxIssueAttempts)
}
