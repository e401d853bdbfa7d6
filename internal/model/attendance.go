package model

import "time"

// VerifyStatus 单腿审核状态枚举
type VerifyStatus string

const (
	VerifyStatusPending  VerifyStatus = "Pending"
	VerifyStatusVerified VerifyStatus = "Verified"
	VerifyStatusRejected VerifyStatus = "Rejected"
)

// Valid 校验审核决定是否合法（Pending 不是合法的决定值）
func (s VerifyStatus) Valid() bool {
	return s == VerifyStatusVerified || s == VerifyStatusRejected
}

// AttendanceStatus 出勤结论枚举
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "Present"
	AttendanceLate      AttendanceStatus = "Late"
	AttendanceUndertime AttendanceStatus = "Undertime"
	AttendanceHalfDay   AttendanceStatus = "Half Day"
	AttendanceAbsent    AttendanceStatus = "Absent"
)

// Valid 校验出勤结论是否为已知取值
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceUndertime, AttendanceHalfDay, AttendanceAbsent:
		return true
	}
	return false
}

// SessionStatus 员工当天的打卡会话状态，按当天记录实时推导
type SessionStatus string

const (
	SessionIdle      SessionStatus = "idle"       // 今天还没有上班卡
	SessionClockedIn SessionStatus = "clocked_in" // 已上班，未下班
	SessionCompleted SessionStatus = "completed"  // 两腿齐全
)

// AttendanceLeg 审核针对的腿
type AttendanceLeg string

const (
	LegIn  AttendanceLeg = "in"
	LegOut AttendanceLeg = "out"
)

// Valid 校验腿标识
func (l AttendanceLeg) Valid() bool {
	return l == LegIn || l == LegOut
}

// AttendanceRecord 每人每天一条的考勤记录，上下班两腿相互独立。
// 不变量：time 为空的腿不得有 photo 和审核状态；TimeOut 必须晚于 TimeIn。
type AttendanceRecord struct {
	BaseModel
	PublicID int64     `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	WorkDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date;index:idx_attendance_date" json:"work_date"`

	// 上班腿
	TimeIn    *time.Time    `json:"time_in,omitempty"`
	PhotoIn   string        `gorm:"type:text;not null;default:''" json:"photo_in,omitempty"`
	StatusIn  *VerifyStatus `gorm:"type:varchar(16)" json:"status_in,omitempty"`
	LatIn     *float64      `gorm:"type:double precision" json:"lat_in,omitempty"`
	LngIn     *float64      `gorm:"type:double precision" json:"lng_in,omitempty"`

	// 下班腿
	TimeOut   *time.Time    `json:"time_out,omitempty"`
	PhotoOut  string        `gorm:"type:text;not null;default:''" json:"photo_out,omitempty"`
	StatusOut *VerifyStatus `gorm:"type:varchar(16)" json:"status_out,omitempty"`
	LatOut    *float64      `gorm:"type:double precision" json:"lat_out,omitempty"`
	LngOut    *float64      `gorm:"type:double precision" json:"lng_out,omitempty"`

	AttendanceStatus AttendanceStatus `gorm:"type:varchar(16);not null;default:'Present'" json:"attendance_status"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// SessionStatus 从两腿推导会话状态
func (r *AttendanceRecord) SessionStatus() SessionStatus {
	if r == nil || r.TimeIn == nil {
		return SessionIdle
	}
	if r.TimeOut == nil {
		return SessionClockedIn
	}
	return SessionCompleted
}

// HasEvidence 指定腿是否存在可审核的证据
func (r *AttendanceRecord) HasEvidence(leg AttendanceLeg) bool {
	switch leg {
	case LegIn:
		return r.TimeIn != nil
	case LegOut:
		return r.TimeOut != nil
	}
	return false
}

// LegStatus 返回指定腿的审核状态，无证据时返回 nil
func (r *AttendanceRecord) LegStatus(leg AttendanceLeg) *VerifyStatus {
	if leg == LegIn {
		return r.StatusIn
	}
	return r.StatusOut
}
