package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"DakaHR/internal/model"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/metrics"
	"DakaHR/pkg/snowflake"
	"DakaHR/storage/mq"
)

// routingKeyFor 按事件类型生成 routing key，订阅端用 attendance.* 统一绑定
func routingKeyFor(t model.AttendanceEventType) string {
	switch t {
	case model.EventNew:
		return "attendance.new"
	case model.EventUpdate:
		return "attendance.update"
	case model.EventDelete:
		return "attendance.delete"
	default:
		return "attendance.update"
	}
}

// PublishAttendanceEvent 发布考勤变更事件（非持久化广播）。
// 事件经 topic 交换机扇出到每个 server 实例的匿名队列，再推给本地 websocket 订阅者。
func PublishAttendanceEvent(ctx context.Context, evt *model.AttendanceEventMessage) error {
	if evt.EventID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate event ID",
				zap.Int64("owner_user_id", evt.OwnerUserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate event ID: %w", err)
		}
		evt.EventID = fmt.Sprintf("evt_%d", id)
	}

	if evt.OccurredAt == "" {
		evt.OccurredAt = time.Now().Format(time.RFC3339)
	}

	routingKey := routingKeyFor(evt.Type)

	err := mq.PublishTransientMessage(
		mq.AttendanceExchange,
		routingKey,
		evt,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish attendance event",
			zap.String("event_id", evt.EventID),
			zap.String("type", string(evt.Type)),
			zap.Int64("owner_user_id", evt.OwnerUserID),
			zap.Error(err),
		)
		return err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordEventPublished(ctx, string(evt.Type))
	}

	logger.Logger.Info("Published attendance event",
		zap.String("event_id", evt.EventID),
		zap.String("type", string(evt.Type)),
		zap.Int64("owner_user_id", evt.OwnerUserID),
		zap.String("routing_key", routingKey),
	)

	return nil
}

// PublishRejectionNotify 发布审核驳回通知任务（持久化），由 worker 消费后发送短信
func PublishRejectionNotify(msg model.RejectionNotifyMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("record_id", msg.RecordID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("rej_%d", id)
	}

	err := mq.PublishMessage(
		mq.NotificationExchange,
		"notification.sms.rejection",
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish rejection notification",
			zap.String("message_id", msg.MessageID),
			zap.Int64("record_id", msg.RecordID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published rejection notification",
		zap.String("message_id", msg.MessageID),
		zap.Int64("record_id", msg.RecordID),
		zap.Int64("user_id", msg.UserID),
		zap.String("leg", msg.Leg),
	)

	return nil
}
