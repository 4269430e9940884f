package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/warebase/warebase/internal/domain"
	"github.com/warebase/warebase/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	m := models.User{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSuperuser:  user.IsSuperuser,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var m models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return domain.User{}, err
	}
	return userToDomain(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var m models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return domain.User{}, err
	}
	return userToDomain(m), nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var ms []models.User
	err := r.db.WithContext(ctx).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, userToDomain(m))
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	assignments := map[string]any{}
	if patch.Email != nil {
		assignments["email"] = *patch.Email
	}
	if patch.Username != nil {
		assignments["username"] = *patch.Username
	}
	if patch.FirstName != nil {
		assignments["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		assignments["last_name"] = *patch.LastName
	}

	var m models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&m).Error; err != nil {
			return err
		}

		if len(assignments) > 0 {
			assignments["updated_at"] = time.Now().UTC()
			if err := tx.Model(&m).Updates(assignments).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Take(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.User{}, domain.ErrDuplicate
	}
	if err != nil {
		return domain.User{}, err
	}
	return userToDomain(m), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

// DeleteMany removes the given ids in one transaction. If any id does
// not match a row the whole batch rolls back.
func (r *UserRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, "id IN ?", ids)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return domain.NotFoundError{Resource: "user"}
		}
		count = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func userToDomain(m models.User) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		IsSuperuser:  m.IsSuperuser,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
