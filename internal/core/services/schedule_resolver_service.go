package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/utils"
)

// ScheduleResolverService - сессия резолва адреса в календарь вывоза.
// Три зависимых шага поиска счета и один календарный запрос выполняются
// строго последовательно; ошибка любого шага прерывает весь резолв,
// частичный результат наружу не выходит
type ScheduleResolverService struct {
	utilityPort out.UtilityPort
	cachePort   out.CachePort
	logger      out.LoggerPort
	cfg         *config.Config
}

func NewScheduleResolverService(
	utilityPort out.UtilityPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *ScheduleResolverService {
	return &ScheduleResolverService{
		utilityPort: utilityPort,
		cachePort:   cachePort,
		logger:      logger.WithModule("ScheduleResolverService"),
		cfg:         cfg,
	}
}

func (s *ScheduleResolverService) ResolveSchedule(ctx context.Context, address string) (*domain.CollectionCalendar, error) {
	sessionID := uuid.New()
	logger := s.logger.WithFields(out.LogFields{
		"sessionId": sessionID,
	})

	logger.Info("resolve.started", out.LogFields{
		"address": address,
	})

	// Проверяем кэш только если он включен
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		if calendar, exists := s.cachePort.GetSchedule(ctx, address); exists {
			logger.Debug("resolve.cache.hit", out.LogFields{
				"address": address,
			})
			return calendar, nil
		}
	}

	account, servicePoints, err := s.resolveAccount(ctx, logger, address)
	if err != nil {
		return nil, err
	}

	calendar, err := s.buildCalendar(ctx, logger, account, servicePoints)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кэш только если он включен
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.StoreSchedule(ctx, address, calendar)
	}

	logger.Info("resolve.finished", out.LogFields{
		"address":       address,
		"accountNumber": account.AccountNumber,
		"daysCount":     len(calendar.Schedule()),
	})

	return calendar, nil
}

// resolveAccount выполняет цепочку premise-код -> номер счета -> точки
// обслуживания. Шаги не могут идти не по порядку: каждый зависит от
// результата предыдущего
func (s *ScheduleResolverService) resolveAccount(ctx context.Context, logger out.LoggerPort, address string) (domain.Account, domain.ServicePointMap, error) {
	premCode, err := s.utilityPort.FindPremise(ctx, address)
	if err != nil {
		return domain.Account{}, nil, err
	}

	accountNumber, err := s.utilityPort.FindAccount(ctx, premCode)
	if err != nil {
		return domain.Account{}, nil, err
	}

	servicePoints, err := s.utilityPort.FindServicePoints(ctx, accountNumber)
	if err != nil {
		return domain.Account{}, nil, err
	}

	account := domain.Account{
		AccountNumber: accountNumber,
		PremiseCode:   premCode,
		PersonID:      servicePoints.PersonID,
		CompanyCode:   servicePoints.CompanyCode,
	}

	logger.Debug("resolve.account.resolved", out.LogFields{
		"accountNumber":      account.AccountNumber,
		"premCode":           account.PremiseCode,
		"servicePointsCount": len(servicePoints.Points),
	})

	return account, servicePoints.Points, nil
}

// buildCalendar запрашивает даты вывоза по всем точкам обслуживания и
// сворачивает их в единый календарь по дням. Описания сервисов, которых
// нет в статической таблице, дат в календарь не добавляют
func (s *ScheduleResolverService) buildCalendar(ctx context.Context, logger out.LoggerPort, account domain.Account, servicePoints domain.ServicePointMap) (*domain.CollectionCalendar, error) {
	rawDates, err := s.utilityPort.GetCollectionDates(ctx, account, servicePoints.ServicePointIDs())
	if err != nil {
		return nil, err
	}

	calendar := domain.NewCollectionCalendar(config.TimeZone)

	for description, servicePointID := range servicePoints {
		dates, exists := rawDates[servicePointID]
		if !exists {
			logger.Error("resolve.calendar.service_point_missing", out.LogFields{
				"servicePointId": servicePointID,
				"description":    description,
			})
			return nil, &domain.RequestError{
				Message: fmt.Sprintf("service point %s missing from calendar response", servicePointID),
			}
		}

		for _, rawDate := range dates {
			normalized, err := utils.NormalizeCollectionDate(rawDate, config.TimeZone)
			if err != nil {
				return nil, &domain.RequestError{Message: err.Error()}
			}
			calendar.Fold(normalized, description)
		}
	}

	return calendar, nil
}

func (s *ScheduleResolverService) InvalidateScheduleCache(ctx context.Context, address string) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}
	s.cachePort.InvalidateSchedule(ctx, address)
}

func (s *ScheduleResolverService) InvalidateAllSchedulesCache(ctx context.Context) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}
	s.cachePort.InvalidateAllSchedules(ctx)
}
