package in

import (
	"context"

	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
)

type ScheduleResolverUseCase interface {
	// Полный резолв адреса в календарь вывоза
	ResolveSchedule(ctx context.Context, address string) (*domain.CollectionCalendar, error)

	// Инвалидация кэшированного календаря одного адреса
	InvalidateScheduleCache(ctx context.Context, address string)

	// Инвалидация всего кэша календарей
	InvalidateAllSchedulesCache(ctx context.Context)
}
