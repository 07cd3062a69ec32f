package out

import (
	"context"

	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
)

type CachePort interface {
	// Кэширование построенных календарей по адресу
	GetSchedule(ctx context.Context, address string) (*domain.CollectionCalendar, bool)
	StoreSchedule(ctx context.Context, address string, calendar *domain.CollectionCalendar)
	InvalidateSchedule(ctx context.Context, address string)
	InvalidateAllSchedules(ctx context.Context)
}
