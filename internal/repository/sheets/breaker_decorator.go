package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cakequest/landing-api/internal/models"
)

const (
	timeInterval = time.Duration(30) * time.Second
	timeTimeOut  = time.Duration(15) * time.Second

	repeatNumber = 5
)

type store interface {
	ListEmails(ctx context.Context) ([]string, error)
	Append(ctx context.Context, sub models.Subscriber) error
}

// BreakerStore stops hammering the Sheets API once it fails repeatedly.
// While the breaker is open every call fails fast.
type BreakerStore struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped store
}

func NewBreakerStore(name string, wrapped store) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    timeInterval,
		Timeout:     timeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= repeatNumber
		},
	}
	return &BreakerStore{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerStore) ListEmails(ctx context.Context) ([]string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.ListEmails(ctx)
	})
	if err != nil {
		return nil, errors.New(b.name + " unavailable: " + err.Error())
	}
	emails, ok := result.([]string)
	if !ok {
		return nil, errors.New(b.name + " unavailable: unexpected result type")
	}
	return emails, nil
}

func (b *BreakerStore) Append(ctx context.Context, sub models.Subscriber) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.wrapped.Append(ctx, sub)
	})
	if err != nil {
		return errors.New(b.name + " unavailable: " + err.Error())
	}
	return nil
}
