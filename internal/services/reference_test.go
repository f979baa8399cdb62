package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ams-portal/internal/entities"
	apperrors "ams-portal/pkg/errors"
)

type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.store[key]; ok {
		return v, nil
	}
	return "", apperrors.ErrNotFound
}

func (f *fakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, key)
	return nil
}

type fakeReferenceRepo struct {
	mu            sync.Mutex
	priorityCalls int
	categoryCalls int
}

func (f *fakeReferenceRepo) GetPriorities(ctx context.Context) ([]*entities.Priority, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priorityCalls++
	return []*entities.Priority{{ID: "p1", Name: "High", Weight: 1}}, nil
}

func (f *fakeReferenceRepo) GetAMSCategories(ctx context.Context) ([]*entities.TicketCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryCalls++
	return []*entities.TicketCategory{{ID: "c1", Name: "Incident", IsAMS: true}}, nil
}

func (f *fakeReferenceRepo) GetStatuses(ctx context.Context) ([]*entities.TicketStatus, error) {
	return []*entities.TicketStatus{{ID: "s1", Name: "New", StatusGroupID: 1}}, nil
}

func (f *fakeReferenceRepo) GetTicketTypes(ctx context.Context) ([]*entities.TicketType, error) {
	return []*entities.TicketType{{ID: "t1", Name: "Error"}}, nil
}

func (f *fakeReferenceRepo) FindStatusByID(ctx context.Context, id string) (*entities.TicketStatus, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeReferenceRepo) FindDefaultStatus(ctx context.Context) (*entities.TicketStatus, error) {
	return &entities.TicketStatus{ID: "s1", Name: "New", StatusGroupID: 1}, nil
}

func TestReferenceServiceCachesLists(t *testing.T) {
	repo := &fakeReferenceRepo{}
	cache := newFakeCache()
	svc := NewReferenceService(repo, cache, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		priorities, err := svc.Priorities(context.Background())
		require.NoError(t, err)
		require.Len(t, priorities, 1)
		assert.Equal(t, "High", priorities[0].Name)
	}

	// Only the first call misses the cache.
	assert.Equal(t, 1, repo.priorityCalls)
}

func TestReferenceServiceInvalidate(t *testing.T) {
	repo := &fakeReferenceRepo{}
	cache := newFakeCache()
	svc := NewReferenceService(repo, cache, time.Minute, zap.NewNop())

	_, err := svc.AMSCategories(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())
	_, err = svc.AMSCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.categoryCalls)
}

func TestReferenceServiceSurvivesCorruptCacheEntry(t *testing.T) {
	repo := &fakeReferenceRepo{}
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), cacheKeyPriorities, "{not json", time.Minute))

	svc := NewReferenceService(repo, cache, time.Minute, zap.NewNop())
	priorities, err := svc.Priorities(context.Background())
	require.NoError(t, err)
	require.Len(t, priorities, 1)
	assert.Equal(t, 1, repo.priorityCalls)
}

func TestFormDataBundlesAllLists(t *testing.T) {
	svc := NewReferenceService(&fakeReferenceRepo{}, newFakeCache(), time.Minute, zap.NewNop())

	form, err := svc.FormData(context.Background())
	require.NoError(t, err)
	assert.Len(t, form.Priorities, 1)
	assert.Len(t, form.Categories, 1)
	assert.Len(t, form.Statuses, 1)
	assert.Len(t, form.Types, 1)
}
