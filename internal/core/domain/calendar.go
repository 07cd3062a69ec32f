package domain

import (
	"time"
)

const dayFormat = "2006-01-02"

// CollectionDay - один календарный день и набор сервисов, которые в него вывозятся
type CollectionDay struct {
	Date     string    `json:"date"`
	Services []Service `json:"services"`
}

// AddService добавляет сервис в день. Повторное добавление ничего не меняет
func (d *CollectionDay) AddService(service Service) {
	for _, s := range d.Services {
		if s == service {
			return
		}
	}
	d.Services = append(d.Services, service)
}

// HasService проверяет наличие сервиса в дне
func (d *CollectionDay) HasService(service Service) bool {
	for _, s := range d.Services {
		if s == service {
			return true
		}
	}
	return false
}

// CollectionCalendar - календарь вывоза по дням, ключ - дата YYYY-MM-DD
// в целевой таймзоне. Инвариант: ключ всегда равен Date его значения.
// Собирается один раз за сессию резолва, после этого только читается
type CollectionCalendar struct {
	days     map[string]*CollectionDay
	location *time.Location
}

func NewCollectionCalendar(location *time.Location) *CollectionCalendar {
	if location == nil {
		location = time.UTC
	}
	return &CollectionCalendar{
		days:     make(map[string]*CollectionDay),
		location: location,
	}
}

// Fold добавляет дату вывоза в календарь по описанию сервиса из API.
// Неизвестное описание - no-op: день не создается, ошибки нет
func (c *CollectionCalendar) Fold(date string, label string) {
	service, ok := ServiceFromLabel(label)
	if !ok {
		return
	}

	day, exists := c.days[date]
	if !exists {
		day = &CollectionDay{Date: date}
		c.days[date] = day
	}
	day.AddService(service)
}

// Schedule возвращает весь построенный календарь, возможно пустой
func (c *CollectionCalendar) Schedule() map[string]*CollectionDay {
	return c.days
}

// NextCollectionDay возвращает ближайший день вывоза начиная с сегодня.
// Сегодня считается календарным днем в целевой таймзоне. Сравнение дат
// строковое: ключи нормализованы в YYYY-MM-DD, лексикографический
// порядок совпадает с хронологическим.
// Если подходящего дня нет (в том числе при пустом календаре),
// возвращает ErrNoUpcomingSchedule
func (c *CollectionCalendar) NextCollectionDay(now time.Time) (*CollectionDay, error) {
	today := now.In(c.location).Format(dayFormat)

	var nextDate string
	for date := range c.days {
		if date < today {
			continue
		}
		if nextDate == "" || date < nextDate {
			nextDate = date
		}
	}

	if nextDate == "" {
		return nil, ErrNoUpcomingSchedule
	}

	return c.days[nextDate], nil
}
