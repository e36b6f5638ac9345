package subscription

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cakequest/landing-api/internal/metrics"
	"github.com/cakequest/landing-api/internal/models"
)

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrAlreadySubscribed = errors.New("email already registered")
)

// emailPattern requires local@domain.tld with no whitespace. The historical
// loose check ("contains @") is deliberately not preserved.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type subscriberStore interface {
	ListEmails(ctx context.Context) ([]string, error)
	Append(ctx context.Context, sub models.Subscriber) error
}

type journalRecorder interface {
	Record(ctx context.Context, sub models.Subscriber) error
}

// Service validates a submitted email, guards against duplicates and
// appends the record to the store. Duplicate suppression is advisory:
// the read-check-append sequence is not serialized across requests, so
// two concurrent submissions of one email can both land.
type Service struct {
	store   subscriberStore
	journal journalRecorder
	logger  *log.Logger
	m       *metrics.Metrics
}

func NewService(
	store subscriberStore,
	journal journalRecorder,
	logger *log.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{store: store, journal: journal, logger: logger, m: m}
}

// Subscribe records one email. Exactly one append on success, zero writes
// on every rejection path.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		s.m.InvalidRejected.Inc()
		return ErrInvalidEmail
	}

	emails, err := s.store.ListEmails(ctx)
	if err != nil {
		s.m.StoreErrors.Inc()
		return fmt.Errorf("list subscribers: %w", err)
	}

	for _, existing := range emails {
		if existing == email {
			s.m.DuplicatesRejected.Inc()
			return ErrAlreadySubscribed
		}
	}

	sub := models.Subscriber{
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	}

	if err := s.store.Append(ctx, sub); err != nil {
		s.m.StoreErrors.Inc()
		return fmt.Errorf("append subscriber: %w", err)
	}
	s.m.SubscriptionsCreated.Inc()

	// Best effort only, the sheet write already succeeded.
	if s.journal != nil {
		if err := s.journal.Record(ctx, sub); err != nil {
			s.logger.Printf("failed to journal subscriber %s: %v", sub.Email, err)
		}
	}

	return nil
}
