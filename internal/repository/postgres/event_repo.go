package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/playtrace/internal/domain"
)

// EventRepo — хранилище канонических событий телеметрии в PostgreSQL.
type EventRepo struct {
	pool *pgxpool.Pool
}

// NewEventRepo настраивает пул соединений. Доступность базы проверяется
// в main через Ping.
func NewEventRepo(ctx context.Context, connString string, maxConns, minConns int32) (*EventRepo, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid connection string: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	return &EventRepo{pool: pool}, nil
}

// Ping проверяет доступность базы при старте.
func (r *EventRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *EventRepo) Close() {
	r.pool.Close()
}

// InsertBatch атомарно сохраняет весь батч: либо коммитятся все события,
// либо ни одного. Персистентность батча транзакционна, даже если часть
// записей была отброшена валидацией выше.
func (r *EventRepo) InsertBatch(ctx context.Context, events []domain.CanonicalEvent) error {
	if len(events) == 0 {
		return nil
	}

	// Колонки таблицы events
	const numFields = 9
	var placeholders strings.Builder
	vals := make([]interface{}, 0, len(events)*numFields)

	// Динамически строим запрос для пакетной вставки
	for i, e := range events {
		p := i * numFields
		fmt.Fprintf(&placeholders, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d),",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7, p+8, p+9)

		var levelID *string
		if e.LevelID != "" {
			levelID = &e.LevelID
		}
		var payload []byte
		if e.Payload != nil {
			payload, _ = json.Marshal(e.Payload)
		}

		vals = append(vals,
			e.ID, e.EventType, e.Timestamp, e.SessionID, levelID,
			e.PositionX, e.PositionY, e.PositionZ, payload,
		)
	}

	query := fmt.Sprintf(
		"INSERT INTO events (id, event_type, timestamp, session_id, level_id, position_x, position_y, position_z, event_data) VALUES %s",
		strings.TrimSuffix(placeholders.String(), ","),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin batch tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("postgres: batch insert: %w", err)
	}
	return tx.Commit(ctx)
}

// QueryPositions возвращает (x, z) всех position_update событий уровня
// с непустыми координатами обеих осей.
func (r *EventRepo) QueryPositions(ctx context.Context, levelID, sessionID string) ([]domain.Point, error) {
	query := `
		SELECT position_x, position_z FROM events
		WHERE event_type = $1 AND level_id = $2
		  AND position_x IS NOT NULL AND position_z IS NOT NULL`
	args := []interface{}{domain.EventTypePositionUpdate, levelID}
	if sessionID != "" {
		query += " AND session_id = $3"
		args = append(args, sessionID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query positions: %w", err)
	}
	defer rows.Close()

	var pts []domain.Point
	for rows.Next() {
		var p domain.Point
		if err := rows.Scan(&p.X, &p.Z); err != nil {
			return nil, fmt.Errorf("postgres: scan position: %w", err)
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}

// QueryEvents возвращает события заданного типа с непустыми (x, z).
func (r *EventRepo) QueryEvents(ctx context.Context, levelID, eventType, sessionID string) ([]domain.EventSample, error) {
	query := `
		SELECT timestamp, position_x, position_z, event_data FROM events
		WHERE level_id = $1 AND event_type = $2
		  AND position_x IS NOT NULL AND position_z IS NOT NULL`
	args := []interface{}{levelID, eventType}
	if sessionID != "" {
		query += " AND session_id = $3"
		args = append(args, sessionID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query events: %w", err)
	}
	defer rows.Close()

	var out []domain.EventSample
	for rows.Next() {
		var e domain.EventSample
		if err := rows.Scan(&e.Timestamp, &e.X, &e.Z, &e.Payload); err != nil {
			return nil, fmt.Errorf("postgres: scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByType группирует события уровня по типу.
func (r *EventRepo) CountByType(ctx context.Context, levelID, sessionID string) (map[string]int64, error) {
	query := `SELECT event_type, COUNT(*) FROM events WHERE level_id = $1`
	args := []interface{}{levelID}
	if sessionID != "" {
		query += " AND session_id = $2"
		args = append(args, sessionID)
	}
	query += " GROUP BY event_type"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: count by type: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("postgres: scan count: %w", err)
		}
		counts[eventType] = count
	}
	return counts, rows.Err()
}

// ListLevels возвращает отсортированный список ненулевых level_id.
func (r *EventRepo) ListLevels(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT level_id FROM events WHERE level_id IS NOT NULL ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list levels: %w", err)
	}
	defer rows.Close()

	var levels []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan level: %w", err)
		}
		levels = append(levels, id)
	}
	return levels, rows.Err()
}

// ListSessions возвращает отсортированные session_id уровня.
func (r *EventRepo) ListSessions(ctx context.Context, levelID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT session_id FROM events
		 WHERE level_id = $1 AND session_id IS NOT NULL ORDER BY session_id`, levelID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan session: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

// SessionSummaries — сводки по сессиям, свежие первыми. Опциональный фильтр
// по уровню отбирает сессии, у которых есть хоть одно событие этого уровня.
func (r *EventRepo) SessionSummaries(ctx context.Context, levelID string, limit int) ([]domain.SessionSummary, error) {
	query := `
		SELECT session_id,
		       COALESCE(MIN(level_id), ''),
		       MIN(timestamp),
		       MAX(timestamp),
		       COUNT(*)
		FROM events
		GROUP BY session_id`
	var args []interface{}
	if levelID != "" {
		query = `
		SELECT session_id,
		       COALESCE(MIN(level_id), ''),
		       MIN(timestamp),
		       MAX(timestamp),
		       COUNT(*)
		FROM events
		WHERE session_id IN (SELECT DISTINCT session_id FROM events WHERE level_id = $1)
		GROUP BY session_id`
		args = append(args, levelID)
	}
	query += " ORDER BY MAX(timestamp) DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: session summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionSummary
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(&s.SessionID, &s.FirstLevelID, &s.StartTime, &s.EndTime, &s.EventCount); err != nil {
			return nil, fmt.Errorf("postgres: scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountDistinctSessions — число уникальных сессий на уровне.
func (r *EventRepo) CountDistinctSessions(ctx context.Context, levelID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT session_id) FROM events WHERE level_id = $1`, levelID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count sessions: %w", err)
	}
	return count, nil
}

// TimeRange — первый и последний таймстемп событий уровня (nil, nil без данных).
func (r *EventRepo) TimeRange(ctx context.Context, levelID string) (*time.Time, *time.Time, error) {
	var first, last *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT MIN(timestamp), MAX(timestamp) FROM events WHERE level_id = $1`, levelID).Scan(&first, &last)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: time range: %w", err)
	}
	return first, last, nil
}

// DeleteEvent удаляет одно событие по id; false — события не было.
func (r *EventRepo) DeleteEvent(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("postgres: delete event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteBySession удаляет все события сессии, возвращает число удаленных.
func (r *EventRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete session events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByLevel удаляет все события уровня, возвращает число удаленных.
func (r *EventRepo) DeleteByLevel(ctx context.Context, levelID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE level_id = $1`, levelID)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete level events: %w", err)
	}
	return tag.RowsAffected(), nil
}
