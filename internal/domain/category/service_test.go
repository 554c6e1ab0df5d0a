package category

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	flat    []Category
	listErr error
	lists   int
}

func (m *mockRepo) List(_ context.Context) ([]Category, error) {
	m.lists++
	return m.flat, m.listErr
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Category, error) {
	for i := range m.flat {
		if m.flat[i].ID == id {
			return &m.flat[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Create(_ context.Context, c *Category) error {
	m.flat = append(m.flat, *c)
	return nil
}

func (m *mockRepo) Update(_ context.Context, _ *Category) error { return nil }
func (m *mockRepo) Delete(_ context.Context, _ string) error    { return nil }

type mockCache struct {
	payload     []byte
	getErr      error
	sets        int
	invalidates int
}

func (m *mockCache) Get(_ context.Context) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	return m.payload, m.payload != nil, nil
}

func (m *mockCache) Set(_ context.Context, payload []byte) error {
	m.payload = payload
	m.sets++
	return nil
}

func (m *mockCache) Invalidate(_ context.Context) error {
	m.payload = nil
	m.invalidates++
	return nil
}

func TestTree_CacheMissPopulatesCache(t *testing.T) {
	repo := &mockRepo{flat: []Category{
		cat("root", "Root", nil),
		cat("child", "Child", ptr("root")),
	}}
	cache := &mockCache{}
	svc := NewService(repo, cache)

	forest, err := svc.Tree(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, CountNodes(forest))
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache.
	forest, err = svc.Tree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, CountNodes(forest))
	assert.Equal(t, 1, repo.lists)
}

func TestTree_CacheFailureFallsBackToRepo(t *testing.T) {
	repo := &mockRepo{flat: []Category{cat("root", "Root", nil)}}
	cache := &mockCache{getErr: errors.New("redis down")}
	svc := NewService(repo, cache)

	forest, err := svc.Tree(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, CountNodes(forest))
	assert.Equal(t, 1, repo.lists)
}

func TestTree_MalformedCachePayloadRebuilds(t *testing.T) {
	repo := &mockRepo{flat: []Category{cat("root", "Root", nil)}}
	cache := &mockCache{payload: []byte("{not json")}
	svc := NewService(repo, cache)

	forest, err := svc.Tree(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, CountNodes(forest))
}

func TestCreate_InvalidatesCache(t *testing.T) {
	repo := &mockRepo{}
	cache := &mockCache{payload: []byte("[]")}
	svc := NewService(repo, cache)

	c, err := svc.Create(context.Background(), "New", nil)

	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 1, cache.invalidates)
}

func TestTree_ForestSerializesWithSubcategories(t *testing.T) {
	repo := &mockRepo{flat: []Category{
		cat("root", "Root", nil),
		cat("child", "Child", ptr("root")),
	}}
	svc := NewService(repo, nil)

	forest, err := svc.Tree(context.Background())
	require.NoError(t, err)

	payload, err := json.Marshal(forest)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"subcategories"`)
}
