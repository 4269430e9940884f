package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/warebase/warebase/internal/domain"
)

const (
	searchCacheTTL     = 30 * time.Second
	searchCacheCleanup = time.Minute
)

// ItemInput carries the create form for one inventory item.
type ItemInput struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       float64         `json:"price"`
	Attributes  json.RawMessage `json:"attributes"`
}

type ItemUsecase struct {
	items   ItemRepository
	index   SearchIndex
	results *cache.Cache
}

func NewItemUsecase(items ItemRepository, index SearchIndex) *ItemUsecase {
	return &ItemUsecase{
		items:   items,
		index:   index,
		results: cache.New(searchCacheTTL, searchCacheCleanup),
	}
}

func (uc *ItemUsecase) Create(ctx context.Context, input ItemInput) (domain.Item, error) {
	item, err := uc.buildItem(input)
	if err != nil {
		return domain.Item{}, err
	}

	if err := uc.items.Create(ctx, item); err != nil {
		return domain.Item{}, err
	}

	if err := uc.index.Index(ctx, item.ID, searchText(item)); err != nil {
		return domain.Item{}, errors.Wrap(err, "ItemUsecase.Create: index failed")
	}

	uc.results.Flush()
	return item, nil
}

// CreateMany persists a batch atomically, then indexes every item.
func (uc *ItemUsecase) CreateMany(ctx context.Context, inputs []ItemInput) ([]domain.Item, error) {
	if len(inputs) == 0 {
		return nil, domain.InvalidInputError{Reason: "items are required"}
	}

	items := make([]domain.Item, 0, len(inputs))
	for _, input := range inputs {
		item, err := uc.buildItem(input)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := uc.items.CreateMany(ctx, items); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := uc.index.Index(ctx, item.ID, searchText(item)); err != nil {
			return nil, errors.Wrap(err, "ItemUsecase.CreateMany: index failed")
		}
	}

	uc.results.Flush()
	return items, nil
}

func (uc *ItemUsecase) List(ctx context.Context, limit, offset int, sku string) ([]domain.Item, error) {
	return uc.items.List(ctx, limit, offset, sku)
}

func (uc *ItemUsecase) Get(ctx context.Context, id string) (domain.Item, error) {
	return uc.items.GetByID(ctx, id)
}

func (uc *ItemUsecase) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	if patch.Name != nil && *patch.Name == "" {
		return domain.Item{}, domain.InvalidInputError{Reason: "name cannot be empty"}
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return domain.Item{}, domain.InvalidInputError{Reason: "quantity cannot be negative"}
	}
	if patch.Price != nil && *patch.Price < 0 {
		return domain.Item{}, domain.InvalidInputError{Reason: "price cannot be negative"}
	}
	if len(patch.Attributes) > 0 && !json.Valid(patch.Attributes) {
		return domain.Item{}, domain.InvalidInputError{Reason: "attributes must be valid JSON"}
	}

	item, err := uc.items.Update(ctx, id, patch)
	if err != nil {
		return domain.Item{}, err
	}

	if err := uc.index.Deindex(ctx, item.ID); err != nil {
		return domain.Item{}, errors.Wrap(err, "ItemUsecase.Update: deindex failed")
	}
	if err := uc.index.Index(ctx, item.ID, searchText(item)); err != nil {
		return domain.Item{}, errors.Wrap(err, "ItemUsecase.Update: reindex failed")
	}

	uc.results.Flush()
	return item, nil
}

func (uc *ItemUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.items.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.index.Deindex(ctx, id); err != nil {
		return errors.Wrap(err, "ItemUsecase.Delete: deindex failed")
	}
	uc.results.Flush()
	return nil
}

// BulkDelete removes a batch of items inside one transaction: either
// every id is deleted or none are.
func (uc *ItemUsecase) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.InvalidInputError{Reason: "ids are required"}
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, domain.InvalidInputError{Reason: "invalid id in request"}
		}
	}

	count, err := uc.items.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := uc.index.Deindex(ctx, id); err != nil {
			return count, errors.Wrap(err, "ItemUsecase.BulkDelete: deindex failed")
		}
	}

	uc.results.Flush()
	return count, nil
}

// Search runs the free-text query against the index and resolves the
// hits to items, preserving index ranking. Responses are cached briefly
// in-process; items and scores only, never auth material.
func (uc *ItemUsecase) Search(ctx context.Context, query string, limit int) ([]domain.ItemMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.InvalidInputError{Reason: "query is required"}
	}

	key := fmt.Sprintf("%s|%d", query, limit)
	if cached, ok := uc.results.Get(key); ok {
		return cached.([]domain.ItemMatch), nil
	}

	hits, err := uc.index.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "ItemUsecase.Search: query failed")
	}
	if len(hits) == 0 {
		return []domain.ItemMatch{}, nil
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}

	items, err := uc.items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	matches := make([]domain.ItemMatch, 0, len(hits))
	for _, hit := range hits {
		item, ok := byID[hit.ID]
		if !ok {
			// index entry with no backing row; skip rather than fail
			continue
		}
		matches = append(matches, domain.ItemMatch{Item: item, Score: hit.Score})
	}

	uc.results.Set(key, matches, cache.DefaultExpiration)
	return matches, nil
}

func (uc *ItemUsecase) buildItem(input ItemInput) (domain.Item, error) {
	if input.Name == "" {
		return domain.Item{}, domain.InvalidInputError{Reason: "name is required"}
	}
	if input.Quantity < 0 {
		return domain.Item{}, domain.InvalidInputError{Reason: "quantity cannot be negative"}
	}
	if input.Price < 0 {
		return domain.Item{}, domain.InvalidInputError{Reason: "price cannot be negative"}
	}
	if len(input.Attributes) > 0 && !json.Valid(input.Attributes) {
		return domain.Item{}, domain.InvalidInputError{Reason: "attributes must be valid JSON"}
	}

	now := time.Now().UTC()
	return domain.Item{
		ID:          uuid.NewString(),
		Name:        input.Name,
		SKU:         input.SKU,
		Description: input.Description,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Attributes:  input.Attributes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func searchText(item domain.Item) string {
	return strings.Join([]string{item.Name, item.SKU, item.Description}, " ")
}
