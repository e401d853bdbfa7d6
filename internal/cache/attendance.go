package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"DakaHR/storage/redis"
)

const (
	// 打卡防重与状态缓存的 key 前缀
	clockGuardPrefix       = "attend:clock:guard"
	sessionStatusPrefix    = "attend:session:status"
	messageProcessedPrefix = "message:processed"
	eventDeliveredPrefix   = "event:delivered"

	clockGuardTTL    = 10 * time.Second
	sessionStatusTTL = 12 * time.Hour
	processedTTL     = 48 * time.Hour
	deliveredTTL     = 10 * time.Minute
)

// TryMarkClocking 打卡防重闸：同一用户同一天同一腿 10 秒内只放行一次（SETNX）。
// 返回 false 表示已有并发提交在处理，调用方按非法状态处理。
func TryMarkClocking(ctx context.Context, userID int64, date, leg string) (bool, error) {
	key := redis.Key(clockGuardPrefix, date, leg, fmt.Sprintf("%d", userID))
	result, err := redis.Client().SetNX(ctx, key, "1", clockGuardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark clocking guard: %w", err)
	}
	return result, nil
}

// UnmarkClocking 打卡落库失败时释放防重闸，允许立即重试
func UnmarkClocking(ctx context.Context, userID int64, date, leg string) error {
	key := redis.Key(clockGuardPrefix, date, leg, fmt.Sprintf("%d", userID))
	return redis.Client().Del(ctx, key).Err()
}

// GetSessionStatus 读取当天会话状态缓存，未命中返回空串
func GetSessionStatus(ctx context.Context, userID int64, date string) (string, error) {
	key := redis.Key(sessionStatusPrefix, date, fmt.Sprintf("%d", userID))
	status, err := redis.Client().Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session status: %w", err)
	}
	return status, nil
}

// SetSessionStatus 写入当天会话状态缓存
func SetSessionStatus(ctx context.Context, userID int64, date, status string) error {
	key := redis.Key(sessionStatusPrefix, date, fmt.Sprintf("%d", userID))
	return redis.Client().Set(ctx, key, status, sessionStatusTTL).Err()
}

// InvalidateSessionStatus 记录发生任何变更时失效缓存，状态下次查询时重新推导
func InvalidateSessionStatus(ctx context.Context, userID int64, date string) error {
	key := redis.Key(sessionStatusPrefix, date, fmt.Sprintf("%d", userID))
	return redis.Client().Del(ctx, key).Err()
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}

// TryMarkEventDelivered 事件推送幂等标记：MQ 重投的同一事件不再推给本实例的订阅者
func TryMarkEventDelivered(ctx context.Context, instanceID, eventID string) (bool, error) {
	key := redis.Key(eventDeliveredPrefix, instanceID, eventID)
	result, err := redis.Client().SetNX(ctx, key, "1", deliveredTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event delivered: %w", err)
	}
	return result, nil
}
