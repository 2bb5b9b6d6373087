package domain

import (
	"encoding/json"
	"time"
)

// EventTypePositionUpdate — фиксированный тип для сэмплов позиции игрока.
// Действия игрока (jump, interact, death...) приходят со своим типом.
const EventTypePositionUpdate = "position_update"

// CanonicalEvent — каноническая запись телеметрии после нормализации.
// После записи в хранилище событие неизменяемо.
type CanonicalEvent struct {
	ID        string    `json:"id"`         // UUID события
	EventType string    `json:"event_type"` // position_update или тип действия
	Timestamp time.Time `json:"timestamp"`  // всегда UTC
	SessionID string    `json:"session_id"`
	LevelID   string    `json:"level_id,omitempty"` // пустая строка = уровень не установлен

	// Координаты опциональны по отдельности: отсутствующая ось хранится как NULL
	PositionX *float64 `json:"position_x"`
	PositionY *float64 `json:"position_y"`
	PositionZ *float64 `json:"position_z"`

	// Непрозрачный payload (детали действия под ключом "details")
	Payload map[string]interface{} `json:"event_data,omitempty"`
}

// EventSample — событие произвольного типа с координатами, как его отдает
// хранилище аналитическим чтениям.
type EventSample struct {
	Timestamp time.Time `json:"timestamp"`
	X         float64   `json:"x"`
	Z         float64   `json:"z"`
	Payload   []byte    `json:"payload,omitempty"`
}

// EventBatch — сырой батч от игрового клиента (Unity).
// Элементы списков декодируются по одному: битая запись выбрасывается,
// остальной батч продолжает обрабатываться.
type EventBatch struct {
	SessionID       string            `json:"sessionId"`
	LevelID         string            `json:"levelId"`
	PositionUpdates []json.RawMessage `json:"positionUpdates"`
	PlayerActions   []json.RawMessage `json:"playerActions"`
}

// Position — позиция из клиентского события; любая из осей может отсутствовать.
type Position struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

// PositionUpdate — одна запись трека позиции.
type PositionUpdate struct {
	TimeStamp string    `json:"timeStamp"`
	Position  *Position `json:"position"`
}

// PlayerAction — дискретное действие игрока.
type PlayerAction struct {
	TimeStamp     string      `json:"timeStamp"`
	EventType     string      `json:"eventType"`
	Position      *Position   `json:"position"`
	ActionDetails interface{} `json:"actionDetails"`
}
