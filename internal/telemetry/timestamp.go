package telemetry

import (
	"errors"
	"strings"
	"time"
)

// Слои парсинга ISO-8601: со смещением и без (наивное время считаем UTC).
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp разбирает клиентскую ISO-8601 строку. Хвостовой 'Z'
// трактуется как нулевое смещение, дробная часть секунды произвольной длины
// обрезается до 6 знаков перед разбором. Результат всегда в UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	if strings.HasSuffix(s, "Z") {
		s = s[:len(s)-1] + "+00:00"
	}
	s = truncateFraction(s)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp format: " + s)
}

// truncateFraction обрезает дробные секунды до 6 знаков, не трогая смещение.
// Знак смещения ищется строго после точки, чтобы не зацепить дефисы даты.
func truncateFraction(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot == -1 {
		return s
	}

	end := len(s)
	for i := dot + 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			end = i
			break
		}
	}

	if end-dot-1 <= 6 {
		return s
	}
	return s[:dot+1+6] + s[end:]
}
