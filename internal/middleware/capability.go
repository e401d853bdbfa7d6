package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DakaHR/internal/model"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/response"
)

// RequireCapability 权限点检查，挂在 AuthMiddleware 之后。
// 角色与权限点的映射是服务端的唯一事实，前端按钮的显隐不作数。
func RequireCapability(capability model.Capability) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		role, ok := GetUserRole(ctx, c)
		if !ok || !role.HasCapability(capability) {
			response.Error(ctx, c, errors.Forbidden)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
