package infra

import "fmt"

const (
	// RedisNamespace — базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "playtrace"
)

// Ключи кэша аналитики. Версия уровня инкрементится на каждый ингест или
// удаление, поэтому кэшированные результаты старой версии просто перестают
// находиться и доживают свой TTL.
const (
	RedisKeyLevelVersionPrefix = RedisNamespace + ":level_version:"
	RedisKeyZonesPrefix        = RedisNamespace + ":zones:"
)

// LevelVersionKey — счетчик версии данных уровня.
func LevelVersionKey(levelID string) string {
	return RedisKeyLevelVersionPrefix + levelID
}

// ZonesCacheKey — ключ кэшированного результата кластеризации для конкретной
// версии данных уровня и набора параметров.
func ZonesCacheKey(levelID, sessionID string, version int64, eps float64, minSamples int) string {
	return fmt.Sprintf("%s%s:%s:v%d:eps%g:ms%d",
		RedisKeyZonesPrefix, levelID, sessionID, version, eps, minSamples)
}
