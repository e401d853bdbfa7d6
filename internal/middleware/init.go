package middleware

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"DakaHR/pkg/logger"
)

// Init 初始化所有中间件
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	// OTel 未启用时全局 meter 是空实现，这里拿到的仍是合法 instrument
	if err := InitMetrics(otel.Meter("dakahr.http")); err != nil {
		logger.Logger.Error("Failed to initialize HTTP metrics", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
