package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"DakaHR/internal/handler"
	"DakaHR/internal/middleware"
	"DakaHR/internal/model"
	"DakaHR/internal/realtime"
)

func Register(h *server.Hertz, hub *realtime.Hub) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
	}

	// 用户相关路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		users.GET("/me", handler.GetUserProfile)
		users.GET("/roster", middleware.RequireCapability(model.CapManualEntry), handler.GetRoster)
	}

	// 考勤路由
	attendances := v1.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		attendances.GET("", handler.ListAttendances)
		attendances.GET("/status/current", handler.GetCurrentStatus)
		attendances.GET("/history", handler.GetHistory)

		// 打卡在通用限流之上再套一层按用户的窗口限流
		attendances.POST("/clock-in", middleware.ClockRateLimitMiddleware(), handler.ClockIn)
		attendances.POST("/clock-out", middleware.ClockRateLimitMiddleware(), handler.ClockOut)

		attendances.POST("/manual", middleware.RequireCapability(model.CapManualEntry), handler.CreateManualEntry)
		attendances.PUT("/:id", middleware.RequireCapability(model.CapEdit), handler.UpdateAttendance)
		attendances.DELETE("/:id", middleware.RequireCapability(model.CapDelete), handler.DeleteAttendance)

		// 审核路由，supervisor 及以上
		attendances.PUT("/verify/:id", middleware.RequireCapability(model.CapVerify), handler.VerifyLeg)
		attendances.PUT("/verify-day/:id", middleware.RequireCapability(model.CapVerify), handler.VerifyDay)
		attendances.POST("/verify-bulk", middleware.RequireCapability(model.CapVerify), handler.BulkVerify)

		// 实时推送，事件已在服务端按权限过滤
		attendances.GET("/ws", handler.AttendanceWS(hub))
	}
}
