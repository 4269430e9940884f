package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/warebase/warebase/internal/domain"
	"github.com/warebase/warebase/internal/infra/database/models"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token domain.AuthToken) error {
	m := models.AuthToken{
		Key:       token.Key,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt,
		UpdatedAt: token.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *TokenRepository) Get(ctx context.Context, key string) (domain.AuthToken, error) {
	var m models.AuthToken
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AuthToken{}, domain.NotFoundError{Resource: "token"}
	}
	if err != nil {
		return domain.AuthToken{}, err
	}

	return domain.AuthToken{
		Key:       m.Key,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
