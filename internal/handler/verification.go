package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/service"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/response"
)

// VerifyLeg 审核单腿证据
// PUT /v1/attendances/verify/:id
func VerifyLeg(ctx context.Context, c *app.RequestContext) {
	id, ok := recordID(c)
	if !ok {
		response.Error(ctx, c, errors.ValidationError)
		return
	}

	var req dto.VerifyLegRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Verification().VerifyLeg(ctx, id,
		model.AttendanceLeg(req.Type), model.VerifyStatus(req.Status))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// VerifyDay 审核整天，作用于所有有证据的腿
// PUT /v1/attendances/verify-day/:id
func VerifyDay(ctx context.Context, c *app.RequestContext) {
	id, ok := recordID(c)
	if !ok {
		response.Error(ctx, c, errors.ValidationError)
		return
	}

	var req dto.VerifyDayRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	record, err := service.Verification().VerifyDay(ctx, id, model.VerifyStatus(req.Status))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// BulkVerify 批量审核，逐项独立执行
// POST /v1/attendances/verify-bulk
func BulkVerify(ctx context.Context, c *app.RequestContext) {
	var req dto.BulkVerifyRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Verification().BulkVerify(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
