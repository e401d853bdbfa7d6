package utils

import (
	"time"
)

// DateLayout 考勤日期的标准格式
const DateLayout = "2006-01-02"

// DateOnly 截断到当天零点，考勤记录的 work_date 一律用它归一化
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate 解析 YYYY-MM-DD 日期串
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
