package domain

import "time"

// HeatmapPoint — точка тепловой карты, уже отмасштабированная под холст.
type HeatmapPoint struct {
	X     int `json:"x"`
	Y     int `json:"y"` // ось Z уровня
	Value int `json:"value"`
}

// HeatmapData — ответ эндпоинта тепловой карты.
type HeatmapData struct {
	LevelID   string         `json:"levelId"`
	SessionID string         `json:"sessionId,omitempty"`
	MinX      float64        `json:"min_x"`
	MaxX      float64        `json:"max_x"`
	MinZ      float64        `json:"min_z"`
	MaxZ      float64        `json:"max_z"`
	Scale     float64        `json:"scale"`
	Points    []HeatmapPoint `json:"points"`
	Message   string         `json:"message,omitempty"`
}

// SessionSummary — сводка по игровой сессии для браузера сессий.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	FirstLevelID string    `json:"first_level_id,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	EventCount   int64     `json:"event_count"`
}

// LevelReport — агрегированный отчет по уровню: базовые метрики,
// зоны и рекомендации.
type LevelReport struct {
	LevelID           string           `json:"levelId"`
	UniqueSessions    int64            `json:"unique_sessions"`
	EventCounts       map[string]int64 `json:"event_counts"`
	FirstEvent        *time.Time       `json:"first_event,omitempty"`
	LastEvent         *time.Time       `json:"last_event,omitempty"`
	DurationSeconds   float64          `json:"duration_seconds"`
	AvailableSessions []string         `json:"available_sessions"`
	ZoneData          *ZoneResult      `json:"zone_data,omitempty"`
	Recommendations   []string         `json:"recommendations"`
}
