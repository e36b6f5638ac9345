package cache_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakequest/landing-api/internal/models"
	"github.com/cakequest/landing-api/internal/repository/cache"
)

type fakeStore struct {
	emails    []string
	listCalls int
	appended  []models.Subscriber
}

func (f *fakeStore) ListEmails(_ context.Context) ([]string, error) {
	f.listCalls++
	return f.emails, nil
}

func (f *fakeStore) Append(_ context.Context, sub models.Subscriber) error {
	f.appended = append(f.appended, sub)
	return nil
}

type fakeCache struct {
	entries  map[string][]string
	getErr   error
	setErr   error
	deletes  int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	emails, ok := f.entries[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return emails, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, key string) error {
	f.deletes++
	delete(f.entries, key)
	return nil
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestListEmailsPopulatesCache(t *testing.T) {
	store := &fakeStore{emails: []string{"user@example.com"}}
	c := newFakeCache()
	cached := cache.NewCachedStore(store, c, discard())

	emails, err := cached.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, emails)
	assert.Equal(t, 1, store.listCalls)

	// Second read is served from cache.
	emails, err = cached.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, emails)
	assert.Equal(t, 1, store.listCalls)
}

func TestListEmailsCacheSetFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{emails: []string{"user@example.com"}}
	c := newFakeCache()
	c.setErr = errors.New("redis down")
	cached := cache.NewCachedStore(store, c, discard())

	emails, err := cached.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, emails)
}

func TestAppendInvalidatesCache(t *testing.T) {
	store := &fakeStore{emails: []string{"user@example.com"}}
	c := newFakeCache()
	cached := cache.NewCachedStore(store, c, discard())

	_, err := cached.ListEmails(context.Background())
	require.NoError(t, err)

	err = cached.Append(context.Background(), models.Subscriber{
		Email:        "second@example.com",
		SubscribedAt: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, store.appended, 1)
	assert.Equal(t, 1, c.deletes)

	// Next read goes back to the sheet.
	store.emails = append(store.emails, "second@example.com")
	emails, err := cached.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
	assert.Len(t, emails, 2)
}
