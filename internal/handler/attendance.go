package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"DakaHR/internal/middleware"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/service"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/response"
)

// viewer 从请求上下文构造访问者，认证缺失时返回 false
func viewer(ctx context.Context, c *app.RequestContext) (service.Viewer, bool) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		return service.Viewer{}, false
	}
	role, ok := middleware.GetUserRole(ctx, c)
	if !ok {
		return service.Viewer{}, false
	}
	return service.Viewer{UserID: userID, Role: role}, true
}

// recordID 解析路径参数里的记录 ID
func recordID(c *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// GetCurrentStatus 查询当天打卡会话状态
// GET /v1/attendances/status/current
func GetCurrentStatus(ctx context.Context, c *app.RequestContext) {
	v, ok := viewer(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	status, err := service.Attendance().TodayStatus(ctx, v.UserID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, status)
}

// ClockIn 上班打卡
// POST /v1/attendances/clock-in
func ClockIn(ctx context.Context, c *app.RequestContext) {
	v, ok := viewer(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.ClockRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Attendance().ClockIn(ctx, v.UserID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// ClockOut 下班打卡
// POST /v1/attendances/clock-out
func ClockOut(ctx context.Context, c *app.RequestContext) {
	v, ok := viewer(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.ClockRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Attendance().ClockOut(ctx, v.UserID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// ListAttendances 当日记录列表，date 缺省为今天
// GET /v1/attendances
func ListAttendances(ctx context.Context, c *app.RequestContext) {
	v, ok := viewer(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var query dto.AttendanceListQuery
	if err := c.BindAndValidate(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	records, err := service.Attendance().ListForDate(ctx, v, query.Date)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, records)
}

// GetHistory 历史记录分页查询
// GET /v1/attendances/history
func GetHistory(ctx context.Context, c *app.RequestContext) {
	v, ok := viewer(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var query dto.AttendanceHistoryQuery
	if err := c.BindAndValidate(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	records, total, err := service.Attendance().History(ctx, v, &query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, records, map[string]interface{}{
		"total":  total,
		"limit":  query.Limit,
		"offset": query.Offset,
	})
}

// CreateManualEntry 手工录入考勤记录，需要 manual_entry 权限
// POST /v1/attendances/manual
func CreateManualEntry(ctx context.Context, c *app.RequestContext) {
	var req dto.ManualEntryRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Attendance().ManualCreate(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// UpdateAttendance 更新考勤记录，需要 edit 权限
// PUT /v1/attendances/:id
func UpdateAttendance(ctx context.Context, c *app.RequestContext) {
	id, ok := recordID(c)
	if !ok {
		response.Error(ctx, c, errors.ValidationError)
		return
	}

	var req dto.UpdateAttendanceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Attendance().Update(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// DeleteAttendance 删除考勤记录，需要 delete 权限
// DELETE /v1/attendances/:id
func DeleteAttendance(ctx context.Context, c *app.RequestContext) {
	id, ok := recordID(c)
	if !ok {
		response.Error(ctx, c, errors.ValidationError)
		return
	}

	if err := service.Attendance().Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
