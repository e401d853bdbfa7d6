package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"DakaHR/internal/cache"
	"DakaHR/internal/model"
	"DakaHR/internal/realtime"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/metrics"
	"DakaHR/storage/mq"
)

type NotificationService interface {
	SendRejectionSMS(ctx context.Context, msg model.RejectionNotifyMessage) error
}

var notificationService NotificationService

// SetNotificationService 设置通知服务（在 worker 启动时调用）
func SetNotificationService(s NotificationService) {
	notificationService = s
}

// StartRejectionSMSConsumer 启动审核驳回短信消费者
func StartRejectionSMSConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.RejectionNotifyMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal rejection notification message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，不阻塞业务，代价是可能重复发送
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("record_id", msg.RecordID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing rejection notification",
			zap.String("message_id", msg.MessageID),
			zap.Int64("record_id", msg.RecordID),
			zap.Int64("user_id", msg.UserID),
			zap.String("leg", msg.Leg),
		)

		if notificationService == nil {
			logger.Logger.Error("NotificationService not initialized",
				zap.String("message_id", msg.MessageID),
			)
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("notification service not initialized")
		}

		if err := notificationService.SendRejectionSMS(ctx, msg); err != nil {
			// SkipMessageError 标记已处理并跳过，不重试
			if errors.IsSkipMessageError(err) {
				if markErr := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); markErr != nil {
					logger.Logger.Warn("Failed to mark skipped message as processed",
						zap.String("message_id", msg.MessageID),
						zap.Error(markErr),
					)
				}
				return err
			}

			// 其他错误：取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to send rejection SMS: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.RejectionQueue,
		ConsumerTag:   "rejection_sms_consumer",
		PrefetchCount: 20,
		Handler:       handler,
	})
}

// StartAttendanceEventConsumer 启动考勤事件广播消费者。
// 每个 server 实例独立订阅，事件去重后投递给本实例的 websocket 订阅者。
func StartAttendanceEventConsumer(ctx context.Context, hub *realtime.Hub, instanceID string) error {
	handler := func(body []byte) error {
		var evt model.AttendanceEventMessage
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("failed to unmarshal attendance event: %w", err)
		}

		// MQ 重投的同一事件不再重复推送
		first, err := cache.TryMarkEventDelivered(ctx, instanceID, evt.EventID)
		if err != nil {
			logger.Logger.Warn("Failed to check event delivered status",
				zap.String("event_id", evt.EventID),
				zap.Error(err),
			)
		} else if !first {
			return nil
		}

		delivered := hub.Broadcast(&evt)

		if m := metrics.GetMetrics(); m != nil {
			m.RecordEventDelivered(ctx, string(evt.Type), int64(delivered))
		}

		return nil
	}

	return mq.ConsumeBroadcast(
		ctx,
		mq.AttendanceExchange,
		"attendance.*",
		fmt.Sprintf("attendance_event_consumer_%s", instanceID),
		handler,
	)
}

// StartWorkerConsumers 启动 worker 侧的所有消费者，阻塞到全部退出
func StartWorkerConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"rejection_sms", StartRejectionSMSConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()
}
