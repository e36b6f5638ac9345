package cache

import (
	"context"
	"log"

	"github.com/cakequest/landing-api/internal/models"
)

const emailSetKey = "subscribers:emails"

type store interface {
	ListEmails(ctx context.Context) ([]string, error)
	Append(ctx context.Context, sub models.Subscriber) error
}

type emailCache interface {
	Set(ctx context.Context, key string, value []string) error
	Get(ctx context.Context, key string) ([]string, error)
	Del(ctx context.Context, key string) error
}

// CachedStore keeps a short-lived copy of the email set in front of the
// sheet. The duplicate guard is advisory either way, so a slightly stale
// set does not change the contract; the entry is dropped on every append.
// Cache failures degrade to a direct sheet read.
type CachedStore struct {
	next   store
	cache  emailCache
	logger *log.Logger
}

func NewCachedStore(next store, cache emailCache, logger *log.Logger) *CachedStore {
	return &CachedStore{next: next, cache: cache, logger: logger}
}

func (c *CachedStore) ListEmails(ctx context.Context) ([]string, error) {
	emails, err := c.cache.Get(ctx, emailSetKey)
	if err == nil {
		return emails, nil
	}

	emails, err = c.next.ListEmails(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, emailSetKey, emails); err != nil {
		c.logger.Printf("failed to cache email set: %v", err)
	}

	return emails, nil
}

func (c *CachedStore) Append(ctx context.Context, sub models.Subscriber) error {
	if err := c.next.Append(ctx, sub); err != nil {
		return err
	}

	if err := c.cache.Del(ctx, emailSetKey); err != nil {
		c.logger.Printf("failed to invalidate email set cache: %v", err)
	}

	return nil
}
