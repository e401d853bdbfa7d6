package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"DakaHR/config"
	"DakaHR/storage/redis"
)

const refreshTokenPrefix = "auth:refresh"

// SetRefreshToken 存储 refresh token，同一用户的旧 token 被覆盖失效
func SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	key := redis.Key(refreshTokenPrefix, userID)
	ttl := time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
	return redis.Client().Set(ctx, key, refreshToken, ttl).Err()
}

// ValidateRefreshTokenExists 检查 refresh token 是否有效且与存储一致
func ValidateRefreshTokenExists(ctx context.Context, userID, refreshToken string) bool {
	key := redis.Key(refreshTokenPrefix, userID)
	stored, err := redis.Client().Get(ctx, key).Result()
	if err == goredis.Nil {
		return false
	}
	if err != nil {
		return false
	}
	return stored == refreshToken
}

// DeleteRefreshToken 登出时删除 refresh token
func DeleteRefreshToken(ctx context.Context, userID string) error {
	key := redis.Key(refreshTokenPrefix, userID)
	return redis.Client().Del(ctx, key).Err()
}
