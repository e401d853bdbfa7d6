package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"DakaHR/internal/model"
	"DakaHR/utils"
)

// AttendanceRepository 考勤记录存取接口
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	Save(ctx context.Context, record *model.AttendanceRecord) error
	Delete(ctx context.Context, record *model.AttendanceRecord) error
	GetByPublicID(ctx context.Context, publicID int64) (*model.AttendanceRecord, error)
	GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*model.AttendanceRecord, error)
	ListByDate(ctx context.Context, date time.Time) ([]*model.AttendanceRecord, error)
	ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*model.AttendanceRecord, error)
	ListHistory(ctx context.Context, q HistoryQuery) ([]*model.AttendanceRecord, int64, error)
}

// HistoryQuery 历史记录查询条件，UserID 为 0 表示不限员工
type HistoryQuery struct {
	UserID int64
	From   *time.Time
	To     *time.Time
	Status model.AttendanceStatus
	Limit  int
	Offset int
}

type gormAttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &gormAttendanceRepository{db: db}
}

func (r *gormAttendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	record.WorkDate = utils.DateOnly(record.WorkDate)
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormAttendanceRepository) Save(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *gormAttendanceRepository) Delete(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Delete(record).Error
}

// GetByPublicID 按对外 ID 查询，未找到返回 (nil, nil)
func (r *gormAttendanceRepository) GetByPublicID(ctx context.Context, publicID int64) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByUserAndDate 每人每天至多一条，未找到返回 (nil, nil)
func (r *gormAttendanceRepository) GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, utils.DateOnly(date)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormAttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.AttendanceRecord, error) {
	var records []*model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("work_date = ?", utils.DateOnly(date)).
		Order("time_in ASC NULLS LAST, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormAttendanceRepository) ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*model.AttendanceRecord, error) {
	var records []*model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, utils.DateOnly(date)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormAttendanceRepository) ListHistory(ctx context.Context, q HistoryQuery) ([]*model.AttendanceRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AttendanceRecord{})

	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.From != nil {
		query = query.Where("work_date >= ?", utils.DateOnly(*q.From))
	}
	if q.To != nil {
		query = query.Where("work_date <= ?", utils.DateOnly(*q.To))
	}
	if q.Status != "" {
		query = query.Where("attendance_status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []*model.AttendanceRecord
	err := query.Order("work_date DESC, id DESC").
		Limit(limit).
		Offset(q.Offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
