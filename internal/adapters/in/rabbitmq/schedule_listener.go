package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/in"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
)

// ScheduleListener слушает сообщения об изменениях маршрутов и сервисов
// предприятия и инвалидирует кэшированные календари
type ScheduleListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.ScheduleResolverUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

// ScheduleInvalidateMessage - сообщение инвалидации.
// Пустой адрес означает сброс всего кэша
type ScheduleInvalidateMessage struct {
	Address string `json:"address"`
}

func NewScheduleListener(useCase in.ScheduleResolverUseCase, cfg *config.Config, logger out.LoggerPort) (*ScheduleListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &ScheduleListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *ScheduleListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *ScheduleListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var invalidate ScheduleInvalidateMessage
	if err := json.Unmarshal(msg.Body, &invalidate); err != nil {
		l.logger.Error("rabbitmq.message.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}

	if invalidate.Address == "" {
		l.useCase.InvalidateAllSchedulesCache(ctx)
		l.logger.Info("rabbitmq.message.invalidated_all", out.LogFields{})
		return nil
	}

	l.useCase.InvalidateScheduleCache(ctx, invalidate.Address)
	l.logger.Info("rabbitmq.message.invalidated", out.LogFields{
		"address": invalidate.Address,
	})

	return nil
}

func (l *ScheduleListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
