package usecase

import (
	"context"

	"github.com/warebase/warebase/internal/domain"
)

// UserRepository defines persistence/lookup for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// TokenIssuer mints a fresh session token for a user.
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (domain.AuthToken, error)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// ItemRepository defines persistence/lookup for inventory items.
type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) error
	CreateMany(ctx context.Context, items []domain.Item) error
	GetByID(ctx context.Context, id string) (domain.Item, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Item, error)
	List(ctx context.Context, limit, offset int, sku string) ([]domain.Item, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// SearchIndex is the full-text index collaborator.
type SearchIndex interface {
	Index(ctx context.Context, id string, text string) error
	Deindex(ctx context.Context, id string) error
	Query(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)
}
