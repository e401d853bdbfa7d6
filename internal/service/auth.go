package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"DakaHR/internal/cache"
	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/repository"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/token"
	"DakaHR/storage/database"
	"DakaHR/utils"
)

// AuthService 员工账号登录与 token 刷新
type AuthService struct {
	users repository.UserRepository
}

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{
			users: repository.NewUserRepository(database.DB()),
		}
	})
	return authService
}

// Login 邮箱密码登录。账号不存在、密码错误、已停用统一返回 Unauthorized，不区分原因
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, errors.Unauthorized
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logger.Logger.Info("Login rejected, wrong password",
			zap.Int64("user_id", user.PublicID),
		)
		return nil, errors.Unauthorized
	}

	userIDStr := strconv.FormatInt(user.PublicID, 10)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 存储 refresh token 到 Redis，失败不影响本次登录
	if err := cache.SetRefreshToken(ctx, userIDStr, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
	}

	logger.Logger.Info("User logged in",
		zap.Int64("user_id", user.PublicID),
		zap.String("role", string(user.Role)),
	)

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         userSnapshot(user),
	}, nil
}

// RefreshToken 刷新 token 对。旧 refresh token 必须与 Redis 中存储的一致
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	userIDStr, _, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, userIDStr, refreshToken) {
		return nil, errors.Unauthorized
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, errors.Unauthorized
	}

	// 角色以数据库当前值为准，刷新后权限变更立即生效
	user, err := s.users.GetByPublicID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, errors.Unauthorized
	}

	accessToken, newRefreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, userIDStr, newRefreshToken); err != nil {
		logger.Logger.Warn("Failed to update refresh token in Redis",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// Logout 删除 Redis 中的 refresh token，已签发的 access token 自然过期
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	userIDStr := strconv.FormatInt(userID, 10)
	if err := cache.DeleteRefreshToken(ctx, userIDStr); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	logger.Logger.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}

func userSnapshot(user *model.User) dto.UserSnapshot {
	caps := user.Role.Capabilities()
	capStrs := make([]string, 0, len(caps))
	for _, c := range caps {
		capStrs = append(capStrs, string(c))
	}

	return dto.UserSnapshot{
		ID:           strconv.FormatInt(user.PublicID, 10),
		Email:        user.Email,
		FullName:     user.FullName(),
		Initials:     user.Initials(),
		Role:         string(user.Role),
		Capabilities: capStrs,
	}
}
