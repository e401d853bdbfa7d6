package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 打卡相关指标
	ClockTotal        metric.Int64Counter
	ClockRejected     metric.Int64Counter
	VerificationTotal metric.Int64Counter

	// 实时推送相关指标
	RealtimeSubscribers metric.Int64UpDownCounter
	EventsPublished     metric.Int64Counter
	EventsDelivered     metric.Int64Counter

	// 短信相关指标
	SMSSentTotal    metric.Int64Counter
	SMSSendDuration metric.Float64Histogram
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("dakahr")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.ClockTotal, err = meter.Int64Counter(
		"attendance_clock_total",
		metric.WithDescription("Total number of clock-in/clock-out submissions"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return err
	}

	metrics.ClockRejected, err = meter.Int64Counter(
		"attendance_clock_rejected_total",
		metric.WithDescription("Clock submissions rejected before persisting"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return err
	}

	metrics.VerificationTotal, err = meter.Int64Counter(
		"attendance_verification_total",
		metric.WithDescription("Total number of verification decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return err
	}

	metrics.RealtimeSubscribers, err = meter.Int64UpDownCounter(
		"realtime_subscribers",
		metric.WithDescription("Number of connected websocket subscribers"),
		metric.WithUnit("{subscriber}"),
	)
	if err != nil {
		return err
	}

	metrics.EventsPublished, err = meter.Int64Counter(
		"attendance_events_published_total",
		metric.WithDescription("Attendance change events published to the broker"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	metrics.EventsDelivered, err = meter.Int64Counter(
		"attendance_events_delivered_total",
		metric.WithDescription("Attendance change events delivered to local subscribers"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSentTotal, err = meter.Int64Counter(
		"sms_sent_total",
		metric.WithDescription("Total number of SMS sent"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSendDuration, err = meter.Float64Histogram(
		"sms_send_duration_seconds",
		metric.WithDescription("Time spent sending SMS in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordClock 记录一次打卡提交
func (m *OTelMetrics) RecordClock(ctx context.Context, leg, outcome string) {
	m.ClockTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("leg", leg),
		attribute.String("outcome", outcome),
	))
	if outcome != "success" {
		m.ClockRejected.Add(ctx, 1, metric.WithAttributes(
			attribute.String("leg", leg),
			attribute.String("reason", outcome),
		))
	}
}

// RecordVerification 记录一次审核决定
func (m *OTelMetrics) RecordVerification(ctx context.Context, leg, decision string, bulk bool) {
	m.VerificationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("leg", leg),
		attribute.String("decision", decision),
		attribute.Bool("bulk", bulk),
	))
}

// AddSubscriber / RemoveSubscriber 维护在线订阅者数
func (m *OTelMetrics) AddSubscriber(ctx context.Context) {
	m.RealtimeSubscribers.Add(ctx, 1)
}

func (m *OTelMetrics) RemoveSubscriber(ctx context.Context) {
	m.RealtimeSubscribers.Add(ctx, -1)
}

// RecordEventPublished 记录事件发布
func (m *OTelMetrics) RecordEventPublished(ctx context.Context, eventType string) {
	m.EventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
	))
}

// RecordEventDelivered 记录事件投递到本实例订阅者
func (m *OTelMetrics) RecordEventDelivered(ctx context.Context, eventType string, count int64) {
	m.EventsDelivered.Add(ctx, count, metric.WithAttributes(
		attribute.String("type", eventType),
	))
}

// RecordSMSSent 记录短信发送结果
func (m *OTelMetrics) RecordSMSSent(ctx context.Context, template, provider, status string, duration float64) {
	m.SMSSentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
	m.SMSSendDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("provider", provider),
	))
}
