package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/warebase/warebase/internal/domain"
)

// SignupInput carries the unauthenticated signup form.
type SignupInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

type AccountUsecase struct {
	users  UserRepository
	issuer TokenIssuer
	hasher PasswordHasher
}

func NewAccountUsecase(users UserRepository, issuer TokenIssuer, hasher PasswordHasher) *AccountUsecase {
	return &AccountUsecase{users: users, issuer: issuer, hasher: hasher}
}

// Signup creates a new account. Username defaults to the email when not
// supplied. Uniqueness is enforced by the credential store, not here:
// concurrent signups race in the database and exactly one wins.
func (uc *AccountUsecase) Signup(ctx context.Context, input SignupInput) error {
	if input.Email == "" {
		return domain.InvalidInputError{Reason: "email is required"}
	}
	if input.Password == "" {
		return domain.InvalidInputError{Reason: "password is required"}
	}
	if input.Password != input.ConfirmPassword {
		return domain.InvalidInputError{Reason: "passwords do not match"}
	}

	username := input.Username
	if username == "" {
		username = input.Email
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return errors.Wrap(err, "AccountUsecase.Signup: hash failed")
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return uc.users.Create(ctx, user)
}

// Login verifies credentials and mints a fresh token. Previously issued
// tokens for the same user are left untouched.
func (uc *AccountUsecase) Login(ctx context.Context, email, password string) (domain.User, domain.AuthToken, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	if !uc.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, domain.AuthToken{}, domain.ErrInvalidCredentials
	}

	token, err := uc.issuer.Issue(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	return user, token, nil
}

func (uc *AccountUsecase) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return uc.users.List(ctx, limit, offset)
}

func (uc *AccountUsecase) Get(ctx context.Context, id string) (domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *AccountUsecase) Update(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	if patch.Email != nil && *patch.Email == "" {
		return domain.User{}, domain.InvalidInputError{Reason: "email cannot be empty"}
	}
	if patch.Username != nil && *patch.Username == "" {
		return domain.User{}, domain.InvalidInputError{Reason: "username cannot be empty"}
	}
	return uc.users.Update(ctx, id, patch)
}

func (uc *AccountUsecase) Delete(ctx context.Context, id string) error {
	return uc.users.Delete(ctx, id)
}

// BulkDelete removes a batch of users inside one transaction: either
// every id is deleted or none are.
func (uc *AccountUsecase) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.InvalidInputError{Reason: "ids are required"}
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, domain.InvalidInputError{Reason: "invalid id in request"}
		}
	}
	return uc.users.DeleteMany(ctx, ids)
}
