package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/warebase/warebase/internal/domain"
)

type memItemRepo struct {
	items map[string]domain.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[string]domain.Item{}}
}

func (r *memItemRepo) Create(ctx context.Context, item domain.Item) error {
	for _, existing := range r.items {
		if existing.SKU != "" && existing.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.items[item.ID] = item
	return nil
}

func (r *memItemRepo) CreateMany(ctx context.Context, items []domain.Item) error {
	for _, item := range items {
		if err := r.Create(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *memItemRepo) GetByID(ctx context.Context, id string) (domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	return item, nil
}

func (r *memItemRepo) GetMany(ctx context.Context, ids []string) ([]domain.Item, error) {
	found := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			found = append(found, item)
		}
	}
	return found, nil
}

func (r *memItemRepo) List(ctx context.Context, limit, offset int, sku string) ([]domain.Item, error) {
	all := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		if sku != "" && item.SKU != sku {
			continue
		}
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	if offset >= len(all) {
		return []domain.Item{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memItemRepo) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.SKU != nil {
		item.SKU = *patch.SKU
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if len(patch.Attributes) > 0 {
		item.Attributes = patch.Attributes
	}
	r.items[id] = item
	return item, nil
}

func (r *memItemRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.NotFoundError{Resource: "item"}
	}
	delete(r.items, id)
	return nil
}

func (r *memItemRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	for _, id := range ids {
		if _, ok := r.items[id]; !ok {
			return 0, domain.NotFoundError{Resource: "item"}
		}
	}
	for _, id := range ids {
		delete(r.items, id)
	}
	return int64(len(ids)), nil
}

// memIndex scores documents by summed term frequency, all query terms
// required, mirroring the redis-backed index.
type memIndex struct {
	docs map[string]map[string]float64
}

func newMemIndex() *memIndex {
	return &memIndex{docs: map[string]map[string]float64{}}
}

func (i *memIndex) Index(ctx context.Context, id string, text string) error {
	terms := map[string]float64{}
	for _, term := range strings.Fields(strings.ToLower(text)) {
		terms[term]++
	}
	i.docs[id] = terms
	return nil
}

func (i *memIndex) Deindex(ctx context.Context, id string) error {
	delete(i.docs, id)
	return nil
}

func (i *memIndex) Query(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	wanted := strings.Fields(strings.ToLower(query))
	hits := []domain.SearchHit{}
	for id, terms := range i.docs {
		score := 0.0
		matched := true
		for _, term := range wanted {
			freq, ok := terms[term]
			if !ok {
				matched = false
				break
			}
			score += freq
		}
		if matched {
			hits = append(hits, domain.SearchHit{ID: id, Score: score})
		}
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if limit > 0 && limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

func newTestItems() (*ItemUsecase, *memItemRepo, *memIndex) {
	repo := newMemItemRepo()
	index := newMemIndex()
	return NewItemUsecase(repo, index), repo, index
}

func TestItemCreateIndexes(t *testing.T) {
	uc, repo, index := newTestItems()

	item, err := uc.Create(context.Background(), ItemInput{
		Name:     "Steel Widget",
		SKU:      "WID-001",
		Quantity: 5,
		Price:    9.99,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, ok := repo.items[item.ID]; !ok {
		t.Fatalf("item not persisted")
	}
	if _, ok := index.docs[item.ID]; !ok {
		t.Fatalf("item not indexed")
	}
}

func TestItemCreateValidation(t *testing.T) {
	uc, _, _ := newTestItems()

	cases := []struct {
		name  string
		input ItemInput
	}{
		{"missing name", ItemInput{Quantity: 1}},
		{"negative quantity", ItemInput{Name: "x", Quantity: -1}},
		{"negative price", ItemInput{Name: "x", Price: -0.5}},
		{"broken attributes", ItemInput{Name: "x", Attributes: json.RawMessage(`{"color":`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.input)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestItemCreateManyRejectsEmptyBatch(t *testing.T) {
	uc, _, _ := newTestItems()

	_, err := uc.CreateMany(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty batch, got %v", err)
	}
}

func TestItemSearchRanking(t *testing.T) {
	uc, _, _ := newTestItems()

	inputs := []ItemInput{
		{Name: "widget widget widget", SKU: "W-1"},
		{Name: "widget", SKU: "W-2"},
		{Name: "gadget", SKU: "G-1"},
	}
	if _, err := uc.CreateMany(context.Background(), inputs); err != nil {
		t.Fatalf("create many failed: %v", err)
	}

	matches, err := uc.Search(context.Background(), "widget", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Fatalf("expected descending score order")
	}
	if matches[0].Item.SKU != "W-1" {
		t.Fatalf("expected most frequent document first, got %s", matches[0].Item.SKU)
	}
}

func TestItemSearchEmptyQuery(t *testing.T) {
	uc, _, _ := newTestItems()

	_, err := uc.Search(context.Background(), "   ", 10)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank query, got %v", err)
	}
}

func TestItemDeleteDeindexes(t *testing.T) {
	uc, _, index := newTestItems()

	item, err := uc.Create(context.Background(), ItemInput{Name: "widget"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := uc.Delete(context.Background(), item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, ok := index.docs[item.ID]; ok {
		t.Fatalf("deleted item still indexed")
	}
	matches, err := uc.Search(context.Background(), "widget", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches after delete, got %d", len(matches))
	}
}

func TestItemUpdateReindexes(t *testing.T) {
	uc, _, _ := newTestItems()

	item, err := uc.Create(context.Background(), ItemInput{Name: "widget"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "sprocket"
	if _, err := uc.Update(context.Background(), item.ID, domain.ItemPatch{Name: &name}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	matches, err := uc.Search(context.Background(), "sprocket", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Item.ID != item.ID {
		t.Fatalf("expected updated item under new term")
	}

	stale, err := uc.Search(context.Background(), "widget", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("expected old term to be dropped, got %d matches", len(stale))
	}
}

func TestItemSearchCachesResults(t *testing.T) {
	uc, repo, _ := newTestItems()

	item, err := uc.Create(context.Background(), ItemInput{Name: "widget"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := uc.Search(context.Background(), "widget", 10); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	// mutate the store behind the usecase's back; cached result survives
	delete(repo.items, item.ID)
	matches, err := uc.Search(context.Background(), "widget", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected cached result, got %d matches", len(matches))
	}

	// any write flushes the cache
	if _, err := uc.Create(context.Background(), ItemInput{Name: "gadget"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	matches, err = uc.Search(context.Background(), "widget", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected fresh result after flush, got %d matches", len(matches))
	}
}

func TestItemBulkDeleteValidation(t *testing.T) {
	uc, _, _ := newTestItems()

	_, err := uc.BulkDelete(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty ids, got %v", err)
	}
	_, err = uc.BulkDelete(context.Background(), []string{"not-a-uuid"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed id, got %v", err)
	}
}
