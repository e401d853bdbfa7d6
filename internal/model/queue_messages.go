package model

// AttendanceEventType 实时事件类型
type AttendanceEventType string

const (
	EventNew    AttendanceEventType = "NEW"
	EventUpdate AttendanceEventType = "UPDATE"
	EventDelete AttendanceEventType = "DELETE"
)

// AttendanceEventMessage 考勤变更事件，经 MQ 广播到所有实例后推给 websocket 订阅者。
// DELETE 事件的 Data 只保留 id/user_id，其余字段已不存在。
type AttendanceEventMessage struct {
	EventID     string                 `json:"event_id"` // 事件唯一ID，用于幂等性检查
	Type        AttendanceEventType    `json:"type"`
	OwnerUserID int64                  `json:"owner_user_id"` // 服务端按订阅者权限过滤投递用
	Data        map[string]interface{} `json:"data"`
	OccurredAt  string                 `json:"occurred_at"`
}

// RejectionNotifyMessage 审核驳回通知消息，worker 消费后发送短信
type RejectionNotifyMessage struct {
	MessageID string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	RecordID  int64  `json:"record_id"`  // 考勤记录 public_id
	UserID    int64  `json:"user_id"`
	Leg       string `json:"leg"` // in / out / day
	WorkDate  string `json:"work_date"`
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
}
