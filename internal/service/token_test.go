package service

import (
	"context"
	"errors"
	"testing"

	"github.com/warebase/warebase/internal/domain"
)

type mockTokenStore struct {
	created   []domain.AuthToken
	failWith  []error
	callCount int
}

func (m *mockTokenStore) Create(ctx context.Context, token domain.AuthToken) error {
	defer func() { m.callCount++ }()
	if m.callCount < len(m.failWith) && m.failWith[m.callCount] != nil {
		return m.failWith[m.callCount]
	}
	m.created = append(m.created, token)
	return nil
}

func TestTokenIssuerIssue(t *testing.T) {
	store := &mockTokenStore{}
	issuer := NewTokenIssuer(store)

	token, err := issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if len(token.Key) != tokenBytes*2 {
		t.Fatalf("expected %d hex chars, got %d", tokenBytes*2, len(token.Key))
	}
	if token.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %s", token.UserID)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one persisted token")
	}
}

func TestTokenIssuerDistinctTokens(t *testing.T) {
	store := &mockTokenStore{}
	issuer := NewTokenIssuer(store)

	first, err := issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, err := issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if first.Key == second.Key {
		t.Fatalf("expected each login to mint a distinct token")
	}
}

func TestTokenIssuerRetriesOnCollision(t *testing.T) {
	store := &mockTokenStore{failWith: []error{domain.ErrDuplicate}}
	issuer := NewTokenIssuer(store)

	token, err := issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue failed after collision: %v", err)
	}
	if token.Key == "" {
		t.Fatalf("expected a token after retry")
	}
	if store.callCount != 2 {
		t.Fatalf("expected two create attempts, got %d", store.callCount)
	}
}

func TestTokenIssuerPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &mockTokenStore{failWith: []error{storeErr}}
	issuer := NewTokenIssuer(store)

	_, err := issuer.Issue(context.Background(), "user-1")
	if err == nil {
		t.Fatalf("expected store error to propagate")
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
