package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/repository"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/metrics"
	"DakaHR/storage/database"
	"DakaHR/utils"
)

// VerificationService 打卡证据审核。两腿独立审核，
// 驳回不撤销已完成的打卡，只把该腿标记为 Rejected 并通知员工。
type VerificationService struct {
	records repository.AttendanceRepository
	users   repository.UserRepository
	guard   ClockGuard
	events  EventPublisher
}

var (
	verificationService *VerificationService
	verificationOnce    sync.Once
)

func Verification() *VerificationService {
	verificationOnce.Do(func() {
		verificationService = NewVerificationService(
			repository.NewAttendanceRepository(database.DB()),
			repository.NewUserRepository(database.DB()),
			redisClockGuard{},
			mqEventPublisher{},
		)
	})
	return verificationService
}

func NewVerificationService(
	records repository.AttendanceRepository,
	users repository.UserRepository,
	guard ClockGuard,
	events EventPublisher,
) *VerificationService {
	return &VerificationService{
		records: records,
		users:   users,
		guard:   guard,
		events:  events,
	}
}

// VerifyLeg 审核单腿。没有证据的腿不可审核，返回 NoEvidence
func (s *VerificationService) VerifyLeg(ctx context.Context, publicID int64, leg model.AttendanceLeg, status model.VerifyStatus) (*dto.AttendanceRecordData, error) {
	return s.verifyLeg(ctx, publicID, leg, status, false)
}

func (s *VerificationService) verifyLeg(ctx context.Context, publicID int64, leg model.AttendanceLeg, status model.VerifyStatus, bulk bool) (*dto.AttendanceRecordData, error) {
	if !leg.Valid() || !status.Valid() {
		return nil, errors.ValidationError
	}

	record, err := s.records.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	if record == nil {
		return nil, errors.NotFound
	}

	if !record.HasEvidence(leg) {
		return nil, errors.NoEvidence
	}

	// 批量审核只作用于 Pending 腿，不改写已有决定；单条审核允许改判
	if bulk && !legPending(record, leg) {
		return nil, errors.AlreadyDecided
	}

	decision := status
	if leg == model.LegIn {
		record.StatusIn = &decision
	} else {
		record.StatusOut = &decision
	}

	if err := s.records.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	s.afterVerify(ctx, record)
	if m := metrics.GetMetrics(); m != nil {
		m.RecordVerification(ctx, string(leg), string(status), bulk)
	}

	if status == model.VerifyStatusRejected {
		s.notifyRejection(ctx, record, string(leg))
	}

	logger.Logger.Info("Attendance leg verified",
		zap.Int64("record_id", record.PublicID),
		zap.String("leg", string(leg)),
		zap.String("decision", string(status)),
	)

	user, _ := s.users.GetByPublicID(ctx, record.UserID)
	return recordData(record, user), nil
}

// VerifyDay 审核整天：对所有有证据的腿应用同一决定
func (s *VerificationService) VerifyDay(ctx context.Context, publicID int64, status model.VerifyStatus) (*dto.AttendanceRecordData, error) {
	return s.verifyDay(ctx, publicID, status, false)
}

func (s *VerificationService) verifyDay(ctx context.Context, publicID int64, status model.VerifyStatus, bulk bool) (*dto.AttendanceRecordData, error) {
	if !status.Valid() {
		return nil, errors.ValidationError
	}

	record, err := s.records.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	if record == nil {
		return nil, errors.NotFound
	}

	applyIn := record.HasEvidence(model.LegIn)
	applyOut := record.HasEvidence(model.LegOut)
	if !applyIn && !applyOut {
		return nil, errors.NoEvidence
	}

	// 批量整天审核同样只作用于仍 Pending 的腿
	if bulk {
		applyIn = applyIn && legPending(record, model.LegIn)
		applyOut = applyOut && legPending(record, model.LegOut)
		if !applyIn && !applyOut {
			return nil, errors.AlreadyDecided
		}
	}

	decision := status
	if applyIn {
		inStatus := decision
		record.StatusIn = &inStatus
	}
	if applyOut {
		outStatus := decision
		record.StatusOut = &outStatus
	}

	if err := s.records.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	s.afterVerify(ctx, record)
	if m := metrics.GetMetrics(); m != nil {
		m.RecordVerification(ctx, "day", string(status), bulk)
	}

	if status == model.VerifyStatusRejected {
		s.notifyRejection(ctx, record, "day")
	}

	logger.Logger.Info("Attendance day verified",
		zap.Int64("record_id", record.PublicID),
		zap.String("decision", string(status)),
	)

	user, _ := s.users.GetByPublicID(ctx, record.UserID)
	return recordData(record, user), nil
}

// BulkVerify 批量审核。逐项独立执行，部分失败不回滚也不中断后续项。
// 资格按当前状态逐项重算：只作用于 Pending 腿，已有决定的项失败返回 ALREADY_DECIDED
func (s *VerificationService) BulkVerify(ctx context.Context, req *dto.BulkVerifyRequest) (*dto.BulkVerifyResponse, error) {
	status := model.VerifyStatus(req.Status)
	if !status.Valid() {
		return nil, errors.ValidationError
	}
	if len(req.Items) == 0 {
		return nil, errors.ValidationError
	}

	resp := &dto.BulkVerifyResponse{
		Results: make([]dto.BulkVerifyResult, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		result := dto.BulkVerifyResult{ID: item.ID, Type: item.Type}

		publicID, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			result.ErrorCode = errors.ValidationError.Code
			resp.Results = append(resp.Results, result)
			resp.Failed++
			continue
		}

		switch item.Type {
		case string(model.LegIn), string(model.LegOut):
			_, err = s.verifyLeg(ctx, publicID, model.AttendanceLeg(item.Type), status, true)
		case "day":
			_, err = s.verifyDay(ctx, publicID, status, true)
		default:
			err = errors.ValidationError
		}

		if err != nil {
			result.ErrorCode = errorCode(err)
			resp.Failed++
		} else {
			result.Succeeded = true
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}

	logger.Logger.Info("Bulk verification finished",
		zap.Int("total", len(req.Items)),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)

	return resp, nil
}

// afterVerify 审核落库后的收尾：失效会话缓存并广播 UPDATE 事件
func (s *VerificationService) afterVerify(ctx context.Context, record *model.AttendanceRecord) {
	date := utils.FormatDate(record.WorkDate)
	if err := s.guard.InvalidateSessionStatus(ctx, record.UserID, date); err != nil {
		logger.Logger.Warn("Failed to invalidate session cache",
			zap.Int64("user_id", record.UserID),
			zap.String("date", date),
			zap.Error(err),
		)
	}

	evt := &model.AttendanceEventMessage{
		Type:        model.EventUpdate,
		OwnerUserID: record.UserID,
		Data:        eventData(record),
	}
	if err := s.events.PublishAttendanceEvent(ctx, evt); err != nil {
		logger.Logger.Warn("Failed to publish verification event",
			zap.Int64("record_id", record.PublicID),
			zap.Error(err),
		)
	}
}

// notifyRejection 投递驳回短信任务。通知是尽力而为，失败不影响已落库的审核决定
func (s *VerificationService) notifyRejection(ctx context.Context, record *model.AttendanceRecord, leg string) {
	user, err := s.users.GetByPublicID(ctx, record.UserID)
	if err != nil {
		logger.Logger.Warn("Failed to query user for rejection notification",
			zap.Int64("user_id", record.UserID),
			zap.Error(err),
		)
		return
	}
	if user == nil || user.Phone == "" {
		logger.Logger.Info("Skipping rejection notification, no phone on file",
			zap.Int64("user_id", record.UserID),
		)
		return
	}

	msg := model.RejectionNotifyMessage{
		RecordID: record.PublicID,
		UserID:   record.UserID,
		Leg:      leg,
		WorkDate: utils.FormatDate(record.WorkDate),
		Phone:    user.Phone,
		FullName: user.FullName(),
	}
	if err := s.events.PublishRejectionNotify(msg); err != nil {
		logger.Logger.Warn("Failed to publish rejection notification",
			zap.Int64("record_id", record.PublicID),
			zap.Error(err),
		)
	}
}

// legPending 该腿是否仍待审核
func legPending(record *model.AttendanceRecord, leg model.AttendanceLeg) bool {
	st := record.LegStatus(leg)
	return st == nil || *st == model.VerifyStatusPending
}

// errorCode 把业务错误映射为批量结果里的错误码
func errorCode(err error) string {
	if def, ok := err.(errors.Definition); ok {
		return def.Code
	}
	return "INTERNAL_ERROR"
}
