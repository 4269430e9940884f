package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/warebase/warebase/internal/domain"
	"github.com/warebase/warebase/internal/infra/database/models"
)

const itemCacheSeconds = 300

type ItemRepository struct {
	db *gorm.DB
	mc *memcache.Client
}

func NewItemRepository(db *gorm.DB, mc *memcache.Client) *ItemRepository {
	return &ItemRepository{db: db, mc: mc}
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) error {
	m := itemToModel(item)
	err := r.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicate
	}
	return err
}

// CreateMany persists the batch in one transaction; a single failure
// rolls back every row.
func (r *ItemRepository) CreateMany(ctx context.Context, items []domain.Item) error {
	ms := make([]models.Item, 0, len(items))
	for _, item := range items {
		ms = append(ms, itemToModel(item))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ms).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicate
	}
	return err
}

// GetByID reads through the memcached layer. Cache errors are treated
// as misses; the database row is authoritative.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (domain.Item, error) {
	if cached, err := r.mc.Get(itemCacheKey(id)); err == nil {
		var item domain.Item
		if err := json.Unmarshal(cached.Value, &item); err == nil {
			return item, nil
		}
	}

	var m models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	if err != nil {
		return domain.Item{}, err
	}

	item := itemToDomain(m)
	r.cacheSet(item)
	return item, nil
}

func (r *ItemRepository) GetMany(ctx context.Context, ids []string) ([]domain.Item, error) {
	var ms []models.Item
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(ms))
	for _, m := range ms {
		items = append(items, itemToDomain(m))
	}
	return items, nil
}

func (r *ItemRepository) List(ctx context.Context, limit, offset int, sku string) ([]domain.Item, error) {
	query := r.db.WithContext(ctx).
		Order("created_at asc").
		Limit(limit).
		Offset(offset)
	if sku != "" {
		query = query.Where("sku = ?", sku)
	}

	var ms []models.Item
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(ms))
	for _, m := range ms {
		items = append(items, itemToDomain(m))
	}
	return items, nil
}

func (r *ItemRepository) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	assignments := map[string]any{}
	if patch.Name != nil {
		assignments["name"] = *patch.Name
	}
	if patch.SKU != nil {
		if *patch.SKU == "" {
			assignments["sku"] = nil
		} else {
			assignments["sku"] = *patch.SKU
		}
	}
	if patch.Description != nil {
		assignments["description"] = *patch.Description
	}
	if patch.Quantity != nil {
		assignments["quantity"] = *patch.Quantity
	}
	if patch.Price != nil {
		assignments["price"] = *patch.Price
	}
	if len(patch.Attributes) > 0 {
		assignments["attributes"] = string(patch.Attributes)
	}

	var m models.Item
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
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Item{}, domain.ErrDuplicate
	}
	if err != nil {
		return domain.Item{}, err
	}

	r.cacheDelete(id)
	return itemToDomain(m), nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "item"}
	}

	r.cacheDelete(id)
	return nil
}

// DeleteMany removes the given ids in one transaction. If any id does
// not match a row the whole batch rolls back.
func (r *ItemRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Item{}, "id IN ?", ids)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return domain.NotFoundError{Resource: "item"}
		}
		count = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		r.cacheDelete(id)
	}
	return count, nil
}

func (r *ItemRepository) cacheSet(item domain.Item) {
	serialized, err := json.Marshal(item)
	if err != nil {
		return
	}
	_ = r.mc.Set(&memcache.Item{
		Key:        itemCacheKey(item.ID),
		Value:      serialized,
		Expiration: itemCacheSeconds,
	})
}

func (r *ItemRepository) cacheDelete(id string) {
	// best effort; a stale entry expires on its own TTL
	_ = r.mc.Delete(itemCacheKey(id))
}

func itemCacheKey(id string) string {
	return "item:" + id
}

func itemToModel(item domain.Item) models.Item {
	m := models.Item{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Attributes:  string(item.Attributes),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.SKU != "" {
		sku := item.SKU
		m.SKU = &sku
	}
	return m
}

func itemToDomain(m models.Item) domain.Item {
	item := domain.Item{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Quantity:    m.Quantity,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.SKU != nil {
		item.SKU = *m.SKU
	}
	if m.Attributes != "" {
		item.Attributes = json.RawMessage(m.Attributes)
	}
	return item
}
