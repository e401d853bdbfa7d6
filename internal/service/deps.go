package service

import (
	"context"

	"DakaHR/internal/cache"
	"DakaHR/internal/model"
	"DakaHR/internal/queue"
)

// Viewer 当前请求的访问者，列表与推送按它做数据范围控制
type Viewer struct {
	UserID int64
	Role   model.UserRole
}

// CanViewAll 是否可见全员记录
func (v Viewer) CanViewAll() bool {
	return v.Role.HasCapability(model.CapViewAll)
}

// ClockGuard 打卡防重与会话状态缓存，生产实现走 Redis
type ClockGuard interface {
	TryMarkClocking(ctx context.Context, userID int64, date, leg string) (bool, error)
	UnmarkClocking(ctx context.Context, userID int64, date, leg string) error
	GetSessionStatus(ctx context.Context, userID int64, date string) (string, error)
	SetSessionStatus(ctx context.Context, userID int64, date, status string) error
	InvalidateSessionStatus(ctx context.Context, userID int64, date string) error
}

// EventPublisher 考勤事件与驳回通知的出口，生产实现走 RabbitMQ
type EventPublisher interface {
	PublishAttendanceEvent(ctx context.Context, evt *model.AttendanceEventMessage) error
	PublishRejectionNotify(msg model.RejectionNotifyMessage) error
}

type redisClockGuard struct{}

func (redisClockGuard) TryMarkClocking(ctx context.Context, userID int64, date, leg string) (bool, error) {
	return cache.TryMarkClocking(ctx, userID, date, leg)
}

func (redisClockGuard) UnmarkClocking(ctx context.Context, userID int64, date, leg string) error {
	return cache.UnmarkClocking(ctx, userID, date, leg)
}

func (redisClockGuard) GetSessionStatus(ctx context.Context, userID int64, date string) (string, error) {
	return cache.GetSessionStatus(ctx, userID, date)
}

func (redisClockGuard) SetSessionStatus(ctx context.Context, userID int64, date, status string) error {
	return cache.SetSessionStatus(ctx, userID, date, status)
}

func (redisClockGuard) InvalidateSessionStatus(ctx context.Context, userID int64, date string) error {
	return cache.InvalidateSessionStatus(ctx, userID, date)
}

type mqEventPublisher struct{}

func (mqEventPublisher) PublishAttendanceEvent(ctx context.Context, evt *model.AttendanceEventMessage) error {
	return queue.PublishAttendanceEvent(ctx, evt)
}

func (mqEventPublisher) PublishRejectionNotify(msg model.RejectionNotifyMessage) error {
	return queue.PublishRejectionNotify(msg)
}
