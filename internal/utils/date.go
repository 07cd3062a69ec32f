package utils

import (
	"fmt"
	"time"
)

const (
	// Формат дат в ответе календарного эндпоинта API
	apiDateFormat = "1/2/2006"
	// Нормализованный формат календарного дня
	dayFormat = "2006-01-02"
)

// NormalizeCollectionDate приводит дату из API (MM/DD/YYYY, ведущие нули
// не обязательны) к календарному дню YYYY-MM-DD в указанной таймзоне.
// Уже нормализованная дата проходит без изменений
func NormalizeCollectionDate(str string, location *time.Location) (string, error) {
	parsedDate, err := time.ParseInLocation(apiDateFormat, str, location)
	if err != nil {
		// Если не удалось, пробуем как уже нормализованную дату
		parsedDate, err = time.ParseInLocation(dayFormat, str, location)
		if err != nil {
			return "", fmt.Errorf("failed to parse collection date %q: %v", str, err)
		}
	}

	return parsedDate.Format(dayFormat), nil
}

// StartCurrentDay обнуляет время, сохраняя дату и таймзону
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
