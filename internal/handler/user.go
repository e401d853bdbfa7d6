package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DakaHR/internal/service"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/response"
)

// GetUserProfile 获取当前用户资料
// GET /v1/users/me
func GetUserProfile(ctx context.Context, c *app.RequestContext) {
	v, ok := viewer(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	profile, err := service.User().Profile(ctx, v.UserID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, profile)
}

// GetRoster 在职员工名册，手工录入时的用户下拉来源
// GET /v1/users/roster
func GetRoster(ctx context.Context, c *app.RequestContext) {
	roster, err := service.User().Roster(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, roster)
}
