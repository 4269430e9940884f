package repository

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/warebase/warebase/internal/domain"
)

// SearchIndexRepository keeps an inverted index in redis. Each term maps
// to a sorted set of item ids scored by term frequency; each document
// keeps the set of its own terms so it can be removed again.
type SearchIndexRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewSearchIndexRepository(rdb *redis.Client, prefix string) *SearchIndexRepository {
	if prefix == "" {
		prefix = "inventory"
	}
	return &SearchIndexRepository{rdb: rdb, prefix: prefix}
}

func (r *SearchIndexRepository) Index(ctx context.Context, id string, text string) error {
	terms := Tokenize(text)
	if len(terms) == 0 {
		return nil
	}

	pipe := r.rdb.TxPipeline()
	for term, count := range terms {
		pipe.ZIncrBy(ctx, r.termKey(term), float64(count), id)
		pipe.SAdd(ctx, r.docKey(id), term)
	}
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "SearchIndexRepository.Index: pipeline failed")
}

func (r *SearchIndexRepository) Deindex(ctx context.Context, id string) error {
	terms, err := r.rdb.SMembers(ctx, r.docKey(id)).Result()
	if err != nil {
		return errors.Wrap(err, "SearchIndexRepository.Deindex: term lookup failed")
	}
	if len(terms) == 0 {
		return nil
	}

	pipe := r.rdb.TxPipeline()
	for _, term := range terms {
		pipe.ZRem(ctx, r.termKey(term), id)
	}
	pipe.Del(ctx, r.docKey(id))
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "SearchIndexRepository.Deindex: pipeline failed")
}

// Query intersects the term sets and returns ids ranked by aggregate
// score, best match first.
func (r *SearchIndexRepository) Query(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return []domain.SearchHit{}, nil
	}

	keys := make([]string, 0, len(terms))
	for term := range terms {
		keys = append(keys, r.termKey(term))
	}

	dest := r.prefix + ":query:" + uuid.NewString()
	defer r.rdb.Del(context.WithoutCancel(ctx), dest)

	err := r.rdb.ZInterStore(ctx, dest, &redis.ZStore{Keys: keys}).Err()
	if err != nil {
		return nil, errors.Wrap(err, "SearchIndexRepository.Query: interstore failed")
	}

	zs, err := r.rdb.ZRevRangeWithScores(ctx, dest, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "SearchIndexRepository.Query: range failed")
	}

	hits := make([]domain.SearchHit, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		hits = append(hits, domain.SearchHit{ID: member, Score: z.Score})
	}
	return hits, nil
}

func (r *SearchIndexRepository) termKey(term string) string {
	return r.prefix + ":term:" + term
}

func (r *SearchIndexRepository) docKey(id string) string {
	return r.prefix + ":doc:" + id
}

// Tokenize lowercases the text and splits it on every non-alphanumeric
// rune, returning term frequencies.
func Tokenize(text string) map[string]int {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make(map[string]int, len(fields))
	for _, field := range fields {
		terms[field]++
	}
	return terms
}
