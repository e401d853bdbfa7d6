package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"DakaHR/config"
	"DakaHR/internal/evidence"
	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/policy"
	"DakaHR/internal/repository"
	"DakaHR/pkg/errors"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/metrics"
	"DakaHR/pkg/snowflake"
	"DakaHR/storage/database"
	"DakaHR/utils"
)

// AttendanceService 打卡会话与记录管理
type AttendanceService struct {
	records    repository.AttendanceRepository
	users      repository.UserRepository
	guard      ClockGuard
	events     EventPublisher
	evidence   *evidence.Validator
	thresholds policy.Thresholds
	now        func() time.Time
}

var (
	attendanceService *AttendanceService
	attendanceOnce    sync.Once
)

func Attendance() *AttendanceService {
	attendanceOnce.Do(func() {
		attendanceService = NewAttendanceService(
			repository.NewAttendanceRepository(database.DB()),
			repository.NewUserRepository(database.DB()),
			redisClockGuard{},
			mqEventPublisher{},
			evidence.NewValidator(config.Cfg.EvidencePhotoMaxBytes, config.Cfg.EvidenceRequireLocation),
			policy.Thresholds{
				LateCutoffMinutes:      config.Cfg.AttendLateCutoffMinutes,
				UndertimeCutoffMinutes: config.Cfg.AttendUndertimeCutoffMinutes,
			},
		)
	})
	return attendanceService
}

func NewAttendanceService(
	records repository.AttendanceRepository,
	users repository.UserRepository,
	guard ClockGuard,
	events EventPublisher,
	validator *evidence.Validator,
	thresholds policy.Thresholds,
) *AttendanceService {
	return &AttendanceService{
		records:    records,
		users:      users,
		guard:      guard,
		events:     events,
		evidence:   validator,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// TodayStatus 查询当天打卡会话状态。优先读会话缓存，未命中时
// 由当天记录实时推导并回填；记录的任何变更都会失效缓存
func (s *AttendanceService) TodayStatus(ctx context.Context, userID int64) (*dto.SessionStatusData, error) {
	now := s.now()
	date := utils.FormatDate(now)

	// 缓存命中只返回轻量状态，记录本体走列表/历史接口
	cached, err := s.guard.GetSessionStatus(ctx, userID, date)
	if err != nil {
		logger.Logger.Warn("Failed to read session cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	} else if cached != "" {
		return &dto.SessionStatusData{Date: date, Status: cached}, nil
	}

	record, err := s.records.GetByUserAndDate(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query today's record: %w", err)
	}

	status := record.SessionStatus()

	resp := &dto.SessionStatusData{
		Date:   date,
		Status: string(status),
	}
	if record != nil {
		resp.Record = s.recordData(ctx, record)
	}

	if err := s.guard.SetSessionStatus(ctx, userID, date, string(status)); err != nil {
		logger.Logger.Warn("Failed to cache session status",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return resp, nil
}

// ClockIn 上班打卡：会话必须处于 idle，证据校验通过后创建或补全当天记录。
// 新打的腿审核状态为 Pending，出勤结论按迟到阈值推导。
func (s *AttendanceService) ClockIn(ctx context.Context, userID int64, req *dto.ClockRequest) (*dto.AttendanceRecordData, error) {
	payload, err := s.evidence.FromRequest(req)
	if err != nil {
		s.recordClockMetric(ctx, "in", "evidence_rejected")
		return nil, err
	}

	now := s.now()
	date := utils.FormatDate(now)

	if err := s.acquireClockGuard(ctx, userID, date, model.LegIn); err != nil {
		return nil, err
	}

	record, err := s.records.GetByUserAndDate(ctx, userID, now)
	if err != nil {
		s.releaseClockGuard(ctx, userID, date, model.LegIn)
		return nil, fmt.Errorf("failed to query today's record: %w", err)
	}

	// 已有上班腿则会话不再是 idle
	if record != nil && record.TimeIn != nil {
		s.releaseClockGuard(ctx, userID, date, model.LegIn)
		s.recordClockMetric(ctx, "in", "invalid_state")
		return nil, errors.InvalidState
	}

	eventType := model.EventUpdate
	if record == nil {
		publicID, err := snowflake.NextID()
		if err != nil {
			s.releaseClockGuard(ctx, userID, date, model.LegIn)
			return nil, fmt.Errorf("failed to generate record ID: %w", err)
		}
		record = &model.AttendanceRecord{
			PublicID: publicID,
			UserID:   userID,
			WorkDate: utils.DateOnly(now),
		}
		eventType = model.EventNew
	}

	pending := model.VerifyStatusPending
	record.TimeIn = &now
	record.PhotoIn = payload.Image
	record.StatusIn = &pending
	if payload.Location != nil {
		lat, lng := payload.Location.Lat, payload.Location.Lng
		record.LatIn, record.LngIn = &lat, &lng
	}
	record.AttendanceStatus = s.thresholds.DeriveStatus(record.TimeIn, record.TimeOut)

	if eventType == model.EventNew {
		err = s.records.Create(ctx, record)
	} else {
		err = s.records.Save(ctx, record)
	}
	if err != nil {
		s.releaseClockGuard(ctx, userID, date, model.LegIn)
		// 并发创建撞唯一索引按重复记录处理
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			s.recordClockMetric(ctx, "in", "duplicate")
			return nil, errors.RecordExists
		}
		return nil, fmt.Errorf("failed to persist clock-in: %w", err)
	}

	s.afterChange(ctx, record, eventType)
	s.recordClockMetric(ctx, "in", "success")

	logger.Logger.Info("Clock-in recorded",
		zap.Int64("user_id", userID),
		zap.Int64("record_id", record.PublicID),
		zap.String("attendance_status", string(record.AttendanceStatus)),
	)

	return s.recordData(ctx, record), nil
}

// ClockOut 下班打卡：会话必须处于 clocked_in，且下班时间必须晚于上班时间。
// 早退与迟到叠加时出勤结论为 Half Day。
func (s *AttendanceService) ClockOut(ctx context.Context, userID int64, req *dto.ClockRequest) (*dto.AttendanceRecordData, error) {
	payload, err := s.evidence.FromRequest(req)
	if err != nil {
		s.recordClockMetric(ctx, "out", "evidence_rejected")
		return nil, err
	}

	now := s.now()
	date := utils.FormatDate(now)

	if err := s.acquireClockGuard(ctx, userID, date, model.LegOut); err != nil {
		return nil, err
	}

	record, err := s.records.GetByUserAndDate(ctx, userID, now)
	if err != nil {
		s.releaseClockGuard(ctx, userID, date, model.LegOut)
		return nil, fmt.Errorf("failed to query today's record: %w", err)
	}

	if record == nil || record.TimeIn == nil || record.TimeOut != nil {
		s.releaseClockGuard(ctx, userID, date, model.LegOut)
		s.recordClockMetric(ctx, "out", "invalid_state")
		return nil, errors.InvalidState
	}

	if !now.After(*record.TimeIn) {
		s.releaseClockGuard(ctx, userID, date, model.LegOut)
		s.recordClockMetric(ctx, "out", "invalid_state")
		return nil, errors.InvalidState
	}

	pending := model.VerifyStatusPending
	record.TimeOut = &now
	record.PhotoOut = payload.Image
	record.StatusOut = &pending
	if payload.Location != nil {
		lat, lng := payload.Location.Lat, payload.Location.Lng
		record.LatOut, record.LngOut = &lat, &lng
	}
	record.AttendanceStatus = s.thresholds.DeriveStatus(record.TimeIn, record.TimeOut)

	if err := s.records.Save(ctx, record); err != nil {
		s.releaseClockGuard(ctx, userID, date, model.LegOut)
		return nil, fmt.Errorf("failed to persist clock-out: %w", err)
	}

	s.afterChange(ctx, record, model.EventUpdate)
	s.recordClockMetric(ctx, "out", "success")

	logger.Logger.Info("Clock-out recorded",
		zap.Int64("user_id", userID),
		zap.Int64("record_id", record.PublicID),
		zap.String("attendance_status", string(record.AttendanceStatus)),
	)

	return s.recordData(ctx, record), nil
}

// ListForDate 当日记录列表。view_all 权限可见全员，否则只返回自己的记录。
func (s *AttendanceService) ListForDate(ctx context.Context, viewer Viewer, dateStr string) ([]*dto.AttendanceRecordData, error) {
	date := s.now()
	if dateStr != "" {
		parsed, err := utils.ParseDate(dateStr)
		if err != nil {
			return nil, errors.ValidationError
		}
		date = parsed
	}

	var (
		records []*model.AttendanceRecord
		err     error
	)
	if viewer.CanViewAll() {
		records, err = s.records.ListByDate(ctx, date)
	} else {
		records, err = s.records.ListByUserAndDate(ctx, viewer.UserID, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return s.recordsData(ctx, records), nil
}

// History 历史记录分页查询，数据范围控制与当日列表一致
func (s *AttendanceService) History(ctx context.Context, viewer Viewer, q *dto.AttendanceHistoryQuery) ([]*dto.AttendanceRecordData, int64, error) {
	hq := repository.HistoryQuery{
		Limit:  q.Limit,
		Offset: q.Offset,
	}

	if !viewer.CanViewAll() {
		hq.UserID = viewer.UserID
	}

	if q.From != "" {
		from, err := utils.ParseDate(q.From)
		if err != nil {
			return nil, 0, errors.ValidationError
		}
		hq.From = &from
	}
	if q.To != "" {
		to, err := utils.ParseDate(q.To)
		if err != nil {
			return nil, 0, errors.ValidationError
		}
		hq.To = &to
	}
	if q.Status != "" {
		status := model.AttendanceStatus(q.Status)
		if !status.Valid() {
			return nil, 0, errors.ValidationError
		}
		hq.Status = status
	}

	records, total, err := s.records.ListHistory(ctx, hq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history: %w", err)
	}

	return s.recordsData(ctx, records), total, nil
}

// ManualCreate 手工录入考勤记录。结论为 Absent 时强制清空两腿时间，
// 请求里带了时间也忽略；同一员工同一天已有记录时拒绝。
func (s *AttendanceService) ManualCreate(ctx context.Context, req *dto.ManualEntryRequest) (*dto.AttendanceRecordData, error) {
	userID, err := strconv.ParseInt(req.UserID, 10, 64)
	if err != nil {
		return nil, errors.InvalidUserID
	}

	user, err := s.users.GetByPublicID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return nil, errors.UserNotFound
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, errors.ValidationError
	}

	status := model.AttendanceStatus(req.AttendanceStatus)
	if !status.Valid() {
		return nil, errors.ValidationError
	}

	existing, err := s.records.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}
	if existing != nil {
		return nil, errors.RecordExists
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record ID: %w", err)
	}

	record := &model.AttendanceRecord{
		PublicID:         publicID,
		UserID:           userID,
		WorkDate:         utils.DateOnly(date),
		AttendanceStatus: status,
	}

	if status != model.AttendanceAbsent {
		timeIn, timeOut, err := parseLegTimes(req.TimeIn, req.TimeOut)
		if err != nil {
			return nil, err
		}
		pending := model.VerifyStatusPending
		if timeIn != nil {
			record.TimeIn = timeIn
			inStatus := pending
			record.StatusIn = &inStatus
		}
		if timeOut != nil {
			record.TimeOut = timeOut
			outStatus := pending
			record.StatusOut = &outStatus
		}
	}

	if err := s.records.Create(ctx, record); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.RecordExists
		}
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.afterChange(ctx, record, model.EventNew)

	logger.Logger.Info("Manual attendance entry created",
		zap.Int64("user_id", userID),
		zap.Int64("record_id", record.PublicID),
		zap.String("date", req.Date),
	)

	return recordData(record, user), nil
}

// Update 更新考勤记录。改日期时重新校验 (员工, 日期) 唯一；
// 结论改为 Absent 时清空两腿；未显式给结论但改了时间时按阈值重新推导。
func (s *AttendanceService) Update(ctx context.Context, publicID int64, req *dto.UpdateAttendanceRequest) (*dto.AttendanceRecordData, error) {
	record, err := s.records.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	if record == nil {
		return nil, errors.NotFound
	}

	oldDate := utils.FormatDate(record.WorkDate)

	if req.Date != "" {
		newDate, err := utils.ParseDate(req.Date)
		if err != nil {
			return nil, errors.ValidationError
		}
		if utils.FormatDate(newDate) != oldDate {
			dup, err := s.records.GetByUserAndDate(ctx, record.UserID, newDate)
			if err != nil {
				return nil, fmt.Errorf("failed to check target date: %w", err)
			}
			if dup != nil && dup.PublicID != record.PublicID {
				return nil, errors.RecordExists
			}
			record.WorkDate = utils.DateOnly(newDate)
		}
	}

	statusExplicit := false
	if req.AttendanceStatus != "" {
		status := model.AttendanceStatus(req.AttendanceStatus)
		if !status.Valid() {
			return nil, errors.ValidationError
		}
		record.AttendanceStatus = status
		statusExplicit = true
	}

	if statusExplicit && record.AttendanceStatus == model.AttendanceAbsent {
		clearLeg(record, model.LegIn)
		clearLeg(record, model.LegOut)
	} else {
		timesChanged := false
		pending := model.VerifyStatusPending

		if req.TimeIn != "" {
			t, err := time.Parse(time.RFC3339, req.TimeIn)
			if err != nil {
				return nil, errors.ValidationError
			}
			record.TimeIn = &t
			if record.StatusIn == nil {
				inStatus := pending
				record.StatusIn = &inStatus
			}
			timesChanged = true
		}
		if req.TimeOut != "" {
			t, err := time.Parse(time.RFC3339, req.TimeOut)
			if err != nil {
				return nil, errors.ValidationError
			}
			if record.TimeIn == nil {
				return nil, errors.ValidationError
			}
			record.TimeOut = &t
			if record.StatusOut == nil {
				outStatus := pending
				record.StatusOut = &outStatus
			}
			timesChanged = true
		}

		if record.TimeIn != nil && record.TimeOut != nil && !record.TimeOut.After(*record.TimeIn) {
			return nil, errors.ValidationError
		}

		if timesChanged && !statusExplicit {
			record.AttendanceStatus = s.thresholds.DeriveStatus(record.TimeIn, record.TimeOut)
		}
	}

	if err := s.records.Save(ctx, record); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.RecordExists
		}
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	newDate := utils.FormatDate(record.WorkDate)
	if newDate != oldDate {
		if err := s.guard.InvalidateSessionStatus(ctx, record.UserID, oldDate); err != nil {
			logger.Logger.Warn("Failed to invalidate session cache",
				zap.Int64("user_id", record.UserID),
				zap.String("date", oldDate),
				zap.Error(err),
			)
		}
	}
	s.afterChange(ctx, record, model.EventUpdate)

	logger.Logger.Info("Attendance record updated",
		zap.Int64("record_id", record.PublicID),
		zap.Int64("user_id", record.UserID),
	)

	return s.recordData(ctx, record), nil
}

// Delete 删除考勤记录并广播 DELETE 事件
func (s *AttendanceService) Delete(ctx context.Context, publicID int64) error {
	record, err := s.records.GetByPublicID(ctx, publicID)
	if err != nil {
		return fmt.Errorf("failed to query record: %w", err)
	}
	if record == nil {
		return errors.NotFound
	}

	if err := s.records.Delete(ctx, record); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	date := utils.FormatDate(record.WorkDate)
	if err := s.guard.InvalidateSessionStatus(ctx, record.UserID, date); err != nil {
		logger.Logger.Warn("Failed to invalidate session cache",
			zap.Int64("user_id", record.UserID),
			zap.String("date", date),
			zap.Error(err),
		)
	}

	// DELETE 事件只携带标识字段，记录本体已不存在
	evt := &model.AttendanceEventMessage{
		Type:        model.EventDelete,
		OwnerUserID: record.UserID,
		Data: map[string]interface{}{
			"id":      strconv.FormatInt(record.PublicID, 10),
			"user_id": strconv.FormatInt(record.UserID, 10),
			"date":    date,
		},
	}
	if err := s.events.PublishAttendanceEvent(ctx, evt); err != nil {
		logger.Logger.Warn("Failed to publish delete event",
			zap.Int64("record_id", record.PublicID),
			zap.Error(err),
		)
	}

	logger.Logger.Info("Attendance record deleted",
		zap.Int64("record_id", record.PublicID),
		zap.Int64("user_id", record.UserID),
	)

	return nil
}

// acquireClockGuard 打卡防重闸。Redis 故障时放行，代价是可能重复提交
func (s *AttendanceService) acquireClockGuard(ctx context.Context, userID int64, date string, leg model.AttendanceLeg) error {
	ok, err := s.guard.TryMarkClocking(ctx, userID, date, string(leg))
	if err != nil {
		logger.Logger.Warn("Failed to acquire clock guard",
			zap.Int64("user_id", userID),
			zap.String("leg", string(leg)),
			zap.Error(err),
		)
		return nil
	}
	if !ok {
		s.recordClockMetric(ctx, string(leg), "duplicate")
		return errors.InvalidState
	}
	return nil
}

// releaseClockGuard 打卡失败时释放防重闸，允许立即重试
func (s *AttendanceService) releaseClockGuard(ctx context.Context, userID int64, date string, leg model.AttendanceLeg) {
	if err := s.guard.UnmarkClocking(ctx, userID, date, string(leg)); err != nil {
		logger.Logger.Warn("Failed to release clock guard",
			zap.Int64("user_id", userID),
			zap.String("leg", string(leg)),
			zap.Error(err),
		)
	}
}

// afterChange 记录变更后的收尾：失效会话缓存并广播事件。
// 两者都是尽力而为，失败不影响已落库的变更。
func (s *AttendanceService) afterChange(ctx context.Context, record *model.AttendanceRecord, eventType model.AttendanceEventType) {
	date := utils.FormatDate(record.WorkDate)
	if err := s.guard.InvalidateSessionStatus(ctx, record.UserID, date); err != nil {
		logger.Logger.Warn("Failed to invalidate session cache",
			zap.Int64("user_id", record.UserID),
			zap.String("date", date),
			zap.Error(err),
		)
	}

	evt := &model.AttendanceEventMessage{
		Type:        eventType,
		OwnerUserID: record.UserID,
		Data:        eventData(record),
	}
	if err := s.events.PublishAttendanceEvent(ctx, evt); err != nil {
		logger.Logger.Warn("Failed to publish attendance event",
			zap.Int64("record_id", record.PublicID),
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
	}
}

func (s *AttendanceService) recordClockMetric(ctx context.Context, leg, outcome string) {
	if m := metrics.GetMetrics(); m != nil {
		m.RecordClock(ctx, leg, outcome)
	}
}

// recordData 单条记录投影，员工展示字段查不到时留空
func (s *AttendanceService) recordData(ctx context.Context, record *model.AttendanceRecord) *dto.AttendanceRecordData {
	user, err := s.users.GetByPublicID(ctx, record.UserID)
	if err != nil {
		logger.Logger.Warn("Failed to query user for record projection",
			zap.Int64("user_id", record.UserID),
			zap.Error(err),
		)
	}
	return recordData(record, user)
}

// recordsData 批量投影，一次查出涉及的全部员工
func (s *AttendanceService) recordsData(ctx context.Context, records []*model.AttendanceRecord) []*dto.AttendanceRecordData {
	userIDs := make([]int64, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for _, r := range records {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			userIDs = append(userIDs, r.UserID)
		}
	}

	users, err := s.users.GetByPublicIDs(ctx, userIDs)
	if err != nil {
		logger.Logger.Warn("Failed to batch query users for list projection",
			zap.Int("user_count", len(userIDs)),
			zap.Error(err),
		)
		users = map[int64]*model.User{}
	}

	result := make([]*dto.AttendanceRecordData, 0, len(records))
	for _, r := range records {
		result = append(result, recordData(r, users[r.UserID]))
	}
	return result
}

func recordData(record *model.AttendanceRecord, user *model.User) *dto.AttendanceRecordData {
	data := &dto.AttendanceRecordData{
		ID:               strconv.FormatInt(record.PublicID, 10),
		UserID:           strconv.FormatInt(record.UserID, 10),
		Date:             utils.FormatDate(record.WorkDate),
		AttendanceStatus: string(record.AttendanceStatus),
		PhotoIn:          record.PhotoIn,
		PhotoOut:         record.PhotoOut,
		LatIn:            record.LatIn,
		LngIn:            record.LngIn,
		LatOut:           record.LatOut,
		LngOut:           record.LngOut,
	}

	if user != nil {
		data.FullName = user.FullName()
		data.Email = user.Email
		data.Initials = user.Initials()
	}

	if record.TimeIn != nil {
		data.TimeIn = record.TimeIn.Format(time.RFC3339)
	}
	if record.StatusIn != nil {
		data.StatusIn = string(*record.StatusIn)
	}
	if record.TimeOut != nil {
		data.TimeOut = record.TimeOut.Format(time.RFC3339)
	}
	if record.StatusOut != nil {
		data.StatusOut = string(*record.StatusOut)
	}

	return data
}

// eventData 事件载荷。不携带照片：data URI 体积大，客户端收到事件后按需拉取
func eventData(record *model.AttendanceRecord) map[string]interface{} {
	data := map[string]interface{}{
		"id":                strconv.FormatInt(record.PublicID, 10),
		"user_id":           strconv.FormatInt(record.UserID, 10),
		"date":              utils.FormatDate(record.WorkDate),
		"attendance_status": string(record.AttendanceStatus),
		"session_status":    string(record.SessionStatus()),
	}

	if record.TimeIn != nil {
		data["time_in"] = record.TimeIn.Format(time.RFC3339)
	}
	if record.StatusIn != nil {
		data["status_in"] = string(*record.StatusIn)
	}
	if record.TimeOut != nil {
		data["time_out"] = record.TimeOut.Format(time.RFC3339)
	}
	if record.StatusOut != nil {
		data["status_out"] = string(*record.StatusOut)
	}

	return data
}

func parseLegTimes(timeInStr, timeOutStr string) (*time.Time, *time.Time, error) {
	var timeIn, timeOut *time.Time

	if timeInStr != "" {
		t, err := time.Parse(time.RFC3339, timeInStr)
		if err != nil {
			return nil, nil, errors.ValidationError
		}
		timeIn = &t
	}
	if timeOutStr != "" {
		t, err := time.Parse(time.RFC3339, timeOutStr)
		if err != nil {
			return nil, nil, errors.ValidationError
		}
		// 没有上班腿就不能有下班腿
		if timeIn == nil {
			return nil, nil, errors.ValidationError
		}
		timeOut = &t
	}

	if timeIn != nil && timeOut != nil && !timeOut.After(*timeIn) {
		return nil, nil, errors.ValidationError
	}

	return timeIn, timeOut, nil
}

func clearLeg(record *model.AttendanceRecord, leg model.AttendanceLeg) {
	switch leg {
	case model.LegIn:
		record.TimeIn = nil
		record.PhotoIn = ""
		record.StatusIn = nil
		record.LatIn = nil
		record.LngIn = nil
	case model.LegOut:
		record.TimeOut = nil
		record.PhotoOut = ""
		record.StatusOut = nil
		record.LatOut = nil
		record.LngOut = nil
	}
}
