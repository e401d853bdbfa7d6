package mq

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
)

// shouldRequeue 处理失败是否重新入队。跳过类错误必须 Ack 掉：
// 重入队会让同一条重复消息被无限重投
func shouldRequeue(err error) bool {
	return !errors.IsSkipMessageError(err)
}

type MessageHandler func([]byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 消费持久化队列，处理失败 Nack 重新入队
func Consume(ctx context.Context, opts ConsumeOptions) error {
	conn := Connection()

	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack = false
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consume channel closed: %s", opts.Queue)
			}

			if err := opts.Handler(msg.Body); err != nil {
				if !shouldRequeue(err) {
					logger.Logger.Info("Message skipped",
						zap.String("queue", opts.Queue),
						zap.String("consumer_tag", opts.ConsumerTag),
						zap.String("reason", err.Error()),
					)
					msg.Ack(false)
					continue
				}

				logger.Logger.Error("Failed to process message",
					zap.String("queue", opts.Queue),
					zap.String("consumer_tag", opts.ConsumerTag),
					zap.Error(err),
				)

				msg.Nack(false, true) // requeue = true
				continue
			}

			msg.Ack(false)
		}
	}
}

// ConsumeBroadcast 广播消费：为当前实例声明排他匿名队列并绑定到 topic 交换机。
// 实例下线队列自动删除，事件不堆积；失败不重入队（下一个事件会带来最新状态）。
func ConsumeBroadcast(ctx context.Context, exchange, bindingKey, consumerTag string, handler MessageHandler) error {
	conn := Connection()

	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare broadcast queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, bindingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind broadcast queue: %w", err)
	}

	msgs, err := ch.Consume(queue.Name, consumerTag, true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register broadcast consumer: %w", err)
	}

	logger.Logger.Info("Started consuming broadcast messages",
		zap.String("exchange", exchange),
		zap.String("queue", queue.Name),
		zap.String("binding_key", bindingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("broadcast channel closed: %s", exchange)
			}

			if err := handler(msg.Body); err != nil {
				logger.Logger.Warn("Failed to process broadcast message",
					zap.String("exchange", exchange),
					zap.Error(err),
				)
			}
		}
	}
}
