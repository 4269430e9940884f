package service

import (
	"context"
	"errors"
	"testing"

	"github.com/warebase/warebase/internal/domain"
)

type mockTokenRepo struct {
	tokens map[string]domain.AuthToken
}

func (m *mockTokenRepo) Get(ctx context.Context, key string) (domain.AuthToken, error) {
	token, ok := m.tokens[key]
	if !ok {
		return domain.AuthToken{}, domain.NotFoundError{Resource: "token"}
	}
	return token, nil
}

type mockUserRepo struct {
	users map[string]domain.User
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func TestAuthServiceAuthenticate(t *testing.T) {
	tokens := &mockTokenRepo{tokens: map[string]domain.AuthToken{
		"valid-token": {Key: "valid-token", UserID: "user-1"},
	}}
	users := &mockUserRepo{users: map[string]domain.User{
		"user-1": {ID: "user-1", Email: "a@x.com"},
	}}

	auth := NewAuthService(tokens, users)

	user, token, err := auth.Authenticate(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", user.ID)
	}
	if token.Key != "valid-token" {
		t.Fatalf("expected resolved token row, got %s", token.Key)
	}
}

func TestAuthServiceFailuresCollapse(t *testing.T) {
	tokens := &mockTokenRepo{tokens: map[string]domain.AuthToken{
		"dangling-token": {Key: "dangling-token", UserID: "gone"},
	}}
	users := &mockUserRepo{users: map[string]domain.User{}}

	auth := NewAuthService(tokens, users)

	// unknown token and dangling owner must be indistinguishable
	for _, value := range []string{"never-issued", "dangling-token"} {
		_, _, err := auth.Authenticate(context.Background(), value)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", value, err)
		}
	}
}
