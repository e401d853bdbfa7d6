package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"DakaHR/config"
	"DakaHR/internal/model"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/metrics"
	"DakaHR/pkg/sms"
)

// NotificationService 审核驳回短信发送，worker 侧消费队列时调用
type NotificationService struct{}

var (
	notificationService *NotificationService
	notificationOnce    sync.Once
)

func Notification() *NotificationService {
	notificationOnce.Do(func() {
		notificationService = &NotificationService{}
	})
	return notificationService
}

// legLabels 短信模板里的腿名称
var legLabels = map[string]string{
	"in":  "clock-in",
	"out": "clock-out",
	"day": "attendance",
}

// SendRejectionSMS 发送审核驳回通知短信。
// 模板未配置时返回 SkipMessageError：消息标记已处理，不再重试。
func (s *NotificationService) SendRejectionSMS(ctx context.Context, msg model.RejectionNotifyMessage) error {
	cfg := config.Cfg

	if cfg.SMSRejectedTemplateCode == "" {
		return &errors.SkipMessageError{Reason: "SMS_REJECTED_TEMPLATE_CODE is not configured"}
	}

	label, ok := legLabels[msg.Leg]
	if !ok {
		label = legLabels["day"]
	}

	paramBytes, err := json.Marshal(map[string]string{
		"name": msg.FullName,
		"date": msg.WorkDate,
		"leg":  label,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal template param: %w", err)
	}

	start := time.Now()
	err = sms.SendSingle(ctx, msg.Phone, cfg.SMSSignName, cfg.SMSRejectedTemplateCode, string(paramBytes))
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "failed"
	}
	if m := metrics.GetMetrics(); m != nil {
		m.RecordSMSSent(ctx, cfg.SMSRejectedTemplateCode, cfg.SMSProvider, status, duration)
	}

	if err != nil {
		return fmt.Errorf("failed to send rejection SMS: %w", err)
	}

	logger.Logger.Info("Rejection SMS sent",
		zap.Int64("record_id", msg.RecordID),
		zap.Int64("user_id", msg.UserID),
		zap.String("leg", msg.Leg),
	)

	return nil
}
