package service

import (
	"context"
	"time"

	"github.com/xela07ax/playtrace/internal/domain"
)

// fakeSource — управляемая реализация EventSource для тестов.
type fakeSource struct {
	positions    []domain.Point
	positionsErr error
	events       []domain.EventSample
	eventsErr    error
	counts       map[string]int64
	countsErr    error

	positionCalls int
}

func (f *fakeSource) QueryPositions(_ context.Context, _, _ string) ([]domain.Point, error) {
	f.positionCalls++
	return f.positions, f.positionsErr
}

func (f *fakeSource) QueryEvents(_ context.Context, _, _, _ string) ([]domain.EventSample, error) {
	return f.events, f.eventsErr
}

func (f *fakeSource) CountByType(_ context.Context, _, _ string) (map[string]int64, error) {
	return f.counts, f.countsErr
}

// fakeStore — путь записи.
type fakeStore struct {
	inserted  [][]domain.CanonicalEvent
	insertErr error
}

func (f *fakeStore) InsertBatch(_ context.Context, events []domain.CanonicalEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, events)
	return nil
}

// fakeReportStore — запросы отчетов и удаления.
type fakeReportStore struct {
	levels      []string
	sessions    []string
	summaries   []domain.SessionSummary
	uniqueCount int64
	counts      map[string]int64
	first, last *time.Time

	deleteOK      bool
	deleteErr     error
	deletedCount  int64
	deletedIDs    []string
	deletedLevels []string

	countsErr error
	rangeErr  error
}

func (f *fakeReportStore) ListLevels(_ context.Context) ([]string, error) { return f.levels, nil }

func (f *fakeReportStore) ListSessions(_ context.Context, _ string) ([]string, error) {
	return f.sessions, nil
}

func (f *fakeReportStore) SessionSummaries(_ context.Context, _ string, _ int) ([]domain.SessionSummary, error) {
	return f.summaries, nil
}

func (f *fakeReportStore) CountDistinctSessions(_ context.Context, _ string) (int64, error) {
	return f.uniqueCount, nil
}

func (f *fakeReportStore) TimeRange(_ context.Context, _ string) (*time.Time, *time.Time, error) {
	return f.first, f.last, f.rangeErr
}

func (f *fakeReportStore) CountByType(_ context.Context, _, _ string) (map[string]int64, error) {
	return f.counts, f.countsErr
}

func (f *fakeReportStore) DeleteEvent(_ context.Context, id string) (bool, error) {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteOK, f.deleteErr
}

func (f *fakeReportStore) DeleteBySession(_ context.Context, _ string) (int64, error) {
	return f.deletedCount, f.deleteErr
}

func (f *fakeReportStore) DeleteByLevel(_ context.Context, levelID string) (int64, error) {
	f.deletedLevels = append(f.deletedLevels, levelID)
	return f.deletedCount, f.deleteErr
}
