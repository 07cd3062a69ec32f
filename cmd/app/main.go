package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	inhttp "github.com/suchimauz/solidwaste-schedule-resolver/internal/adapters/in/http"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/adapters/out/cache"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/adapters/out/logger"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/adapters/out/utility"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"utilityApiUrl":   cfg.Utility.URL,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров.
	// Токен один на процесс, все сессии резолва делят его через адаптер
	tokenProvider := utility.NewTokenProvider(cfg, mainLogger.WithModule("TokenProvider"))
	utilityAdapter := utility.NewUtilityAdapter(cfg, tokenProvider, mainLogger.WithModule("UtilityAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		var err error
		cacheAdapter, err = cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}

	// Инициализация сервиса
	scheduleResolverService := services.NewScheduleResolverService(
		utilityAdapter,
		cacheAdapter,
		mainLogger.WithModule("ScheduleResolverService"),
		cfg,
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := inhttp.NewScheduleController(scheduleResolverService, cfg)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewScheduleListener(
			scheduleResolverService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
