package cache

import (
	"context"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
)

// CacheAdapter - LRU-кэш построенных календарей по адресу.
// Живет только внутри процесса, между запусками ничего не сохраняется
type CacheAdapter struct {
	schedules *lru.Cache[string, *domain.CollectionCalendar]
	mu        sync.RWMutex
	logger    out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	schedules, err := lru.New[string, *domain.CollectionCalendar](cfg.Cache.SchedulesSize)
	if err != nil {
		logger.Error("cache.schedules.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.SchedulesSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		schedules: schedules,
		logger:    logger.WithModule("CacheAdapter"),
	}, nil
}

// cacheKey нормализует адрес, чтобы регистр и лишние пробелы
// не плодили отдельные записи
func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (c *CacheAdapter) GetSchedule(ctx context.Context, address string) (*domain.CollectionCalendar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	calendar, exists := c.schedules.Get(cacheKey(address))
	if !exists {
		c.logger.Debug("cache.schedules.get.miss", out.LogFields{
			"address": address,
		})
		return nil, false
	}

	c.logger.Debug("cache.schedules.get.hit", out.LogFields{
		"address": address,
	})
	return calendar, true
}

func (c *CacheAdapter) StoreSchedule(ctx context.Context, address string, calendar *domain.CollectionCalendar) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.schedules.store", out.LogFields{
		"address":   address,
		"daysCount": len(calendar.Schedule()),
	})

	c.schedules.Add(cacheKey(address), calendar)
}

func (c *CacheAdapter) InvalidateSchedule(ctx context.Context, address string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.schedules.Remove(cacheKey(address))

	c.logger.Debug("cache.schedules.invalidate", out.LogFields{
		"address": address,
	})
}

func (c *CacheAdapter) InvalidateAllSchedules(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.schedules.Purge()

	c.logger.Info("cache.schedules.invalidate_all", out.LogFields{})
}
