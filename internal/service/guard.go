package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"github.com/xela07ax/playtrace/internal/domain"
	"golang.org/x/time/rate"
)

// EventSource — аналитический путь чтения хранилища событий.
type EventSource interface {
	QueryPositions(ctx context.Context, levelID, sessionID string) ([]domain.Point, error)
	QueryEvents(ctx context.Context, levelID, eventType, sessionID string) ([]domain.EventSample, error)
	CountByType(ctx context.Context, levelID, sessionID string) (map[string]int64, error)
}

// GuardedSource оборачивает чтения хранилища в retry, circuit breaker и
// rate limiter, чтобы мигающий Postgres деградировал в пустые результаты
// аналитики, а не добивался повторными запросами.
type GuardedSource struct {
	next    EventSource
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewGuardedSource(next EventSource) *GuardedSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "event-store-reads",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second, // время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &GuardedSource{
		next:    next,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(100), 20),
	}
}

func (g *GuardedSource) do(ctx context.Context, fn func(context.Context) error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	_, err := g.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
		)
		return nil, r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return fn(tCtx)
		})
	})
	return err
}

func (g *GuardedSource) QueryPositions(ctx context.Context, levelID, sessionID string) ([]domain.Point, error) {
	var pts []domain.Point
	err := g.do(ctx, func(ctx context.Context) error {
		var innerErr error
		pts, innerErr = g.next.QueryPositions(ctx, levelID, sessionID)
		return innerErr
	})
	return pts, err
}

func (g *GuardedSource) QueryEvents(ctx context.Context, levelID, eventType, sessionID string) ([]domain.EventSample, error) {
	var samples []domain.EventSample
	err := g.do(ctx, func(ctx context.Context) error {
		var innerErr error
		samples, innerErr = g.next.QueryEvents(ctx, levelID, eventType, sessionID)
		return innerErr
	})
	return samples, err
}

func (g *GuardedSource) CountByType(ctx context.Context, levelID, sessionID string) (map[string]int64, error) {
	var counts map[string]int64
	err := g.do(ctx, func(ctx context.Context) error {
		var innerErr error
		counts, innerErr = g.next.CountByType(ctx, levelID, sessionID)
		return innerErr
	})
	return counts, err
}
