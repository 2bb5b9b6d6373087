package telemetry

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/xela07ax/playtrace/internal/domain"
	"go.uber.org/zap"
)

// PayloadKeyDetails — стабильный ключ, под которым детали действия
// сериализуются в непрозрачный payload события.
const PayloadKeyDetails = "details"

// Normalizer переводит сырые клиентские батчи в канонические события.
// Битые записи молча выбрасываются с диагностикой в лог, батч никогда
// не прерывается на валидации.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger.Named("normalizer")}
}

// Normalize возвращает валидные канонические события батча и общее число
// записей-кандидатов (включая отброшенные).
func (n *Normalizer) Normalize(batch domain.EventBatch) ([]domain.CanonicalEvent, int) {
	candidates := len(batch.PositionUpdates) + len(batch.PlayerActions)
	events := make([]domain.CanonicalEvent, 0, candidates)

	for _, raw := range batch.PositionUpdates {
		var entry domain.PositionUpdate
		if err := json.Unmarshal(raw, &entry); err != nil {
			n.logger.Warn("skipping malformed position_update entry",
				zap.String("session_id", batch.SessionID), zap.Error(err))
			continue
		}

		ts, err := ParseTimestamp(entry.TimeStamp)
		if err != nil || entry.Position == nil {
			n.logger.Warn("skipping position_update with invalid timestamp or position",
				zap.String("session_id", batch.SessionID),
				zap.String("timestamp", entry.TimeStamp))
			continue
		}

		events = append(events, domain.CanonicalEvent{
			ID:        uuid.New().String(),
			EventType: domain.EventTypePositionUpdate,
			Timestamp: ts,
			SessionID: batch.SessionID,
			LevelID:   batch.LevelID,
			PositionX: entry.Position.X,
			PositionY: entry.Position.Y,
			PositionZ: entry.Position.Z,
		})
	}

	for _, raw := range batch.PlayerActions {
		var entry domain.PlayerAction
		if err := json.Unmarshal(raw, &entry); err != nil {
			n.logger.Warn("skipping malformed player_action entry",
				zap.String("session_id", batch.SessionID), zap.Error(err))
			continue
		}

		ts, err := ParseTimestamp(entry.TimeStamp)
		if err != nil || entry.EventType == "" || entry.Position == nil {
			n.logger.Warn("skipping player_action with invalid timestamp, eventType or position",
				zap.String("session_id", batch.SessionID),
				zap.String("event_type", entry.EventType),
				zap.String("timestamp", entry.TimeStamp))
			continue
		}

		var payload map[string]interface{}
		if entry.ActionDetails != nil {
			payload = map[string]interface{}{PayloadKeyDetails: entry.ActionDetails}
		}

		events = append(events, domain.CanonicalEvent{
			ID:        uuid.New().String(),
			EventType: entry.EventType,
			Timestamp: ts,
			SessionID: batch.SessionID,
			LevelID:   batch.LevelID,
			PositionX: entry.Position.X,
			PositionY: entry.Position.Y,
			PositionZ: entry.Position.Z,
			Payload:   payload,
		})
	}

	return events, candidates
}
