package reporter

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cakequest/landing-api/internal/metrics"
)

const (
	timeoutDuration = 30 * time.Second

	jobName = "subscriber_stats"
)

type subscriberLister interface {
	ListEmails(ctx context.Context) ([]string, error)
}

type journalCounter interface {
	Count(ctx context.Context) (int, error)
}

// Reporter periodically reads the subscriber sheet to refresh the count
// gauge. When the store in front of it is the cached one, each run also
// re-warms the email-set cache.
type Reporter struct {
	store   subscriberLister
	journal journalCounter
	logger  *log.Logger
	cron    *cron.Cron
	cancel  context.CancelFunc
	m       *metrics.Metrics
	spec    string
}

func New(
	store subscriberLister,
	journal journalCounter,
	logger *log.Logger,
	spec string,
	m *metrics.Metrics,
) *Reporter {
	return &Reporter{
		store:   store,
		journal: journal,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds()),
		m:       m,
		spec:    spec,
	}
}

// Start schedules the stats job.
func (r *Reporter) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	if _, err := r.cron.AddFunc(r.spec, func() {
		r.m.CronJob(jobName, func() { r.Refresh(ctx) })
	}); err != nil {
		r.logger.Printf("failed to schedule stats job: %v", err)
		return
	}

	r.cron.Start()
	r.logger.Println("Subscriber stats reporter started")
}

// Stop cancels the scheduled job and waits for completion.
func (r *Reporter) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Println("Subscriber stats reporter stopped")
}

// Refresh reads the sheet and updates the subscriber count gauge.
func (r *Reporter) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	emails, err := r.store.ListEmails(ctx)
	if err != nil {
		r.logger.Printf("stats refresh: failed to list subscribers: %v", err)
		return
	}
	r.m.SubscriberCount.Set(float64(len(emails)))

	journaled := 0
	if r.journal != nil {
		if journaled, err = r.journal.Count(ctx); err != nil {
			r.logger.Printf("stats refresh: failed to count journal rows: %v", err)
		}
	}

	r.logger.Printf("subscriber stats: sheet=%d journal=%d", len(emails), journaled)
}
