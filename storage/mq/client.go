package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"DakaHR/config"
)

const (
	// AttendanceExchange 考勤事件 topic 交换机，广播给所有 server 实例
	AttendanceExchange = "attendance.events"
	// NotificationExchange 通知任务 topic 交换机
	NotificationExchange = "notification.topic"
	// RejectionQueue 驳回短信队列，worker 消费
	RejectionQueue = "notification.sms.rejection"
)

var (
	conn    *amqp.Connection
	mqOnce  sync.Once
	initErr error
)

func Init() error {
	mqOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()
		conn, initErr = amqp.Dial(url)
		if initErr != nil {
			return
		}

		initErr = declareTopology()
	})

	return initErr
}

// declareTopology 声明交换机与持久化队列，幂等
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel for topology: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(AttendanceExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare attendance exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(NotificationExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare notification exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(RejectionQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare rejection queue: %w", err)
	}

	if err := ch.QueueBind(RejectionQueue, "notification.sms.*", NotificationExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind rejection queue: %w", err)
	}

	return nil
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
