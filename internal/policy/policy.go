package policy

import (
	"strconv"
	"strings"
	"time"

	"DakaHR/internal/model"
)

// Thresholds 迟到/早退判定阈值，单位为当天零点起的分钟数。
// 边界为开区间：等于 LateCutoff 不算迟到，等于 UndertimeCutoff 不算早退。
type Thresholds struct {
	LateCutoffMinutes      int
	UndertimeCutoffMinutes int
}

// Default 495 = 08:15，1020 = 17:00
func Default() Thresholds {
	return Thresholds{
		LateCutoffMinutes:      495,
		UndertimeCutoffMinutes: 1020,
	}
}

// minutesOfDay 解析 "HH:MM" 或 "HH:MM:SS"，失败返回 -1
func minutesOfDay(clock string) int {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return -1
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return -1
	}

	return hour*60 + minute
}

// IsLate 上班时间是否迟到。输入为空或无法解析时不标记，返回 false。
func (t Thresholds) IsLate(clock string) bool {
	m := minutesOfDay(clock)
	if m < 0 {
		return false
	}
	return m > t.LateCutoffMinutes
}

// IsUndertime 下班时间是否早退。输入为空或无法解析时不标记，返回 false。
func (t Thresholds) IsUndertime(clock string) bool {
	m := minutesOfDay(clock)
	if m < 0 {
		return false
	}
	return m < t.UndertimeCutoffMinutes
}

// IsLateAt / IsUndertimeAt 直接基于时间戳判定，打卡路径用这两个
func (t Thresholds) IsLateAt(at time.Time) bool {
	return at.Hour()*60+at.Minute() > t.LateCutoffMinutes
}

func (t Thresholds) IsUndertimeAt(at time.Time) bool {
	return at.Hour()*60+at.Minute() < t.UndertimeCutoffMinutes
}

// DeriveStatus 由两腿时间推导出勤结论，用于打卡路径（手工录入由操作者指定结论）。
// 只有上班腿时：迟到则 Late，否则 Present；两腿齐全时早退优先级高于迟到。
func (t Thresholds) DeriveStatus(timeIn, timeOut *time.Time) model.AttendanceStatus {
	if timeIn == nil {
		return model.AttendanceAbsent
	}

	late := t.IsLateAt(*timeIn)

	if timeOut == nil {
		if late {
			return model.AttendanceLate
		}
		return model.AttendancePresent
	}

	undertime := t.IsUndertimeAt(*timeOut)

	switch {
	case late && undertime:
		return model.AttendanceHalfDay
	case undertime:
		return model.AttendanceUndertime
	case late:
		return model.AttendanceLate
	default:
		return model.AttendancePresent
	}
}
