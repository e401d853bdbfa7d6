package dto

// ========== Attendance 相关 DTO ==========

// GeoPointData 打卡时浏览器上报的定位
type GeoPointData struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy,omitempty"` // 米
}

// ClockRequest 上班/下班打卡请求，Photo 为 data URI 格式的自拍
type ClockRequest struct {
	Photo        string        `json:"photo" binding:"required"`
	Location     *GeoPointData `json:"location,omitempty"`
	CaptureState string        `json:"capture_state" binding:"required"` // 必须为 submitted
}

// SessionStatusData 当天打卡会话状态
type SessionStatusData struct {
	Date   string                `json:"date"`
	Status string                `json:"status"` // idle / clocked_in / completed
	Record *AttendanceRecordData `json:"record,omitempty"`
}

// AttendanceRecordData 考勤记录的对外视图，带员工展示字段
type AttendanceRecordData struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Date     string `json:"date"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Initials string `json:"initials"`

	TimeIn   string   `json:"time_in,omitempty"` // RFC3339，空串表示无
	PhotoIn  string   `json:"photo_in,omitempty"`
	StatusIn string   `json:"status_in,omitempty"`
	LatIn    *float64 `json:"lat_in,omitempty"`
	LngIn    *float64 `json:"lng_in,omitempty"`

	TimeOut   string   `json:"time_out,omitempty"`
	PhotoOut  string   `json:"photo_out,omitempty"`
	StatusOut string   `json:"status_out,omitempty"`
	LatOut    *float64 `json:"lat_out,omitempty"`
	LngOut    *float64 `json:"lng_out,omitempty"`

	AttendanceStatus string `json:"attendance_status"`
}

// AttendanceListQuery 当日列表查询参数，date 缺省为今天
type AttendanceListQuery struct {
	Date string `form:"date"` // YYYY-MM-DD
}

// AttendanceHistoryQuery 历史查询参数
type AttendanceHistoryQuery struct {
	From   string `form:"from"` // YYYY-MM-DD
	To     string `form:"to"`
	Status string `form:"status"` // 出勤结论过滤
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ManualEntryRequest 手工录入请求（需要 manual_entry 权限）。
// AttendanceStatus 为 Absent 时服务端强制清空两腿时间。
type ManualEntryRequest struct {
	UserID           string `json:"user_id" binding:"required"`
	Date             string `json:"date" binding:"required"` // YYYY-MM-DD
	TimeIn           string `json:"time_in,omitempty"`       // RFC3339
	TimeOut          string `json:"time_out,omitempty"`
	AttendanceStatus string `json:"attendance_status" binding:"required"`
}

// UpdateAttendanceRequest 记录更新请求（需要 edit 权限）
type UpdateAttendanceRequest struct {
	Date             string `json:"date,omitempty"`
	TimeIn           string `json:"time_in,omitempty"`
	TimeOut          string `json:"time_out,omitempty"`
	AttendanceStatus string `json:"attendance_status,omitempty"`
}

// VerifyLegRequest 单腿审核请求
type VerifyLegRequest struct {
	Type   string `json:"type" binding:"required"`   // in / out
	Status string `json:"status" binding:"required"` // Verified / Rejected
}

// VerifyDayRequest 整天审核请求，作用于所有有证据的腿
type VerifyDayRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkVerifyItem 批量审核中的一项
type BulkVerifyItem struct {
	ID   string `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"` // in / out / day
}

// BulkVerifyRequest 批量审核请求，逐项独立执行，部分失败不回滚
type BulkVerifyRequest struct {
	Items  []BulkVerifyItem `json:"items" binding:"required"`
	Status string           `json:"status" binding:"required"`
}

// BulkVerifyResult 批量审核的单项结果
type BulkVerifyResult struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Succeeded bool   `json:"succeeded"`
	ErrorCode string `json:"error_code,omitempty"`
}

// BulkVerifyResponse 批量审核响应
type BulkVerifyResponse struct {
	Results   []BulkVerifyResult `json:"results"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}
