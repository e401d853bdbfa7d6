package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/websocket"
	"go.uber.org/zap"

	"DakaHR/internal/middleware"
	"DakaHR/internal/model"
	"DakaHR/internal/realtime"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/metrics"
	"DakaHR/pkg/response"
)

var upgrader = websocket.HertzUpgrader{
	// 握手已经过 JWT 中间件，这里不再做 Origin 校验
	CheckOrigin: func(c *app.RequestContext) bool { return true },
}

// wsFrame 推送给客户端的事件帧
type wsFrame struct {
	Event string                 `json:"event"`
	Type  string                 `json:"type"`
	Data  map[string]interface{} `json:"data"`
}

// AttendanceWS 考勤事件实时推送
// GET /v1/attendances/ws
//
// 同一 client_id 重复连接时新连接顶掉旧连接；
// 无 view_all 权限的用户只收到自己记录的事件。
func AttendanceWS(hub *realtime.Hub) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		userID, ok := middleware.GetUserIDInt64(ctx, c)
		if !ok {
			response.Error(ctx, c, errors.Unauthorized)
			return
		}
		role, ok := middleware.GetUserRole(ctx, c)
		if !ok {
			response.Error(ctx, c, errors.Unauthorized)
			return
		}

		clientID := c.Query("client_id")

		err := upgrader.Upgrade(c, func(conn *websocket.Conn) {
			sub := hub.Subscribe(clientID, userID, role.HasCapability(model.CapViewAll))
			defer hub.Unsubscribe(sub)

			if m := metrics.GetMetrics(); m != nil {
				m.AddSubscriber(ctx)
				defer m.RemoveSubscriber(ctx)
			}

			logger.Logger.Info("Realtime subscriber connected",
				zap.String("client_id", sub.ClientID),
				zap.Int64("user_id", userID))

			// 读协程只为感知断连，客户端不上行业务消息
			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					if _, _, err := conn.ReadMessage(); err != nil {
						return
					}
				}
			}()

			for {
				select {
				case <-done:
					return
				case evt, open := <-sub.Events():
					if !open {
						// 被同 client_id 的新连接顶掉
						_ = conn.WriteMessage(websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "superseded"))
						return
					}
					frame := wsFrame{
						Event: "attendance_update",
						Type:  string(evt.Type),
						Data:  evt.Data,
					}
					if err := conn.WriteJSON(frame); err != nil {
						logger.Logger.Warn("Realtime write failed, dropping subscriber",
							zap.String("client_id", sub.ClientID),
							zap.Error(err))
						return
					}
				}
			}
		})
		if err != nil {
			logger.Logger.Warn("WebSocket upgrade failed", zap.Error(err))
		}
	}
}
