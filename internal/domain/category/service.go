package category

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache stores the rendered category forest between reads. Implementations
// are best-effort: a cache failure degrades to a repository read, never to
// an operation failure.
type Cache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, payload []byte) error
	Invalidate(ctx context.Context) error
}

// NopCache is used when no cache backend is configured.
type NopCache struct{}

func (NopCache) Get(context.Context) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, []byte) error         { return nil }
func (NopCache) Invalidate(context.Context) error          { return nil }

// Service composes the category repository, the forest builder, and an
// optional cache. Writes go straight to the repository and invalidate the
// cached forest.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a category Service. A nil cache is replaced with
// NopCache.
func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{repo: repo, cache: cache}
}

// Tree returns the category forest, serving from cache when possible.
func (s *Service) Tree(ctx context.Context) ([]*Node, error) {
	if payload, ok, err := s.cache.Get(ctx); err != nil {
		zctx.From(ctx).Warn("Category cache read failed", zap.Error(err))
	} else if ok {
		var forest []*Node
		if err := json.Unmarshal(payload, &forest); err == nil {
			return forest, nil
		}
		zctx.From(ctx).Warn("Category cache held malformed payload, rebuilding")
	}

	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	forest := BuildForest(flat)

	if payload, err := json.Marshal(forest); err == nil {
		if err := s.cache.Set(ctx, payload); err != nil {
			zctx.From(ctx).Warn("Category cache write failed", zap.Error(err))
		}
	}
	return forest, nil
}

// Create inserts a new category and drops the cached forest.
func (s *Service) Create(ctx context.Context, name string, parentID *string) (*Category, error) {
	c := &Category{
		ID:       uuid.New().String(),
		Name:     name,
		ParentID: parentID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create category")
	}
	s.invalidate(ctx)
	return c, nil
}

// Update renames or re-parents a category and drops the cached forest.
func (s *Service) Update(ctx context.Context, c *Category) error {
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a category and drops the cached forest. Children of the
// deleted category are re-rooted by the storage layer, not orphaned.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		zctx.From(ctx).Warn("Category cache invalidation failed", zap.Error(err))
	}
}
