package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"DakaHR/internal/model"
	"DakaHR/pkg/logger"
)

// Hub 单实例内的考勤事件订阅中心。
// 投递时按订阅者权限过滤：view_all 订阅者收到全部事件，普通员工只收到自己记录的事件。
// 同一 clientID 重复订阅会替换旧订阅，不会出现重复投递。
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber // clientID -> subscriber
}

// Subscriber 一条 websocket 连接对应的订阅句柄。
// 调用方持有句柄并负责在连接退出路径上 Unsubscribe。
type Subscriber struct {
	ClientID string
	UserID   int64
	ViewAll  bool

	ch     chan *model.AttendanceEventMessage
	closed bool
	mu     sync.Mutex
}

const subscriberBuffer = 16

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]*Subscriber),
	}
}

// Subscribe 注册订阅。clientID 为空时生成新的；已存在的 clientID 旧订阅被关闭替换。
func (h *Hub) Subscribe(clientID string, userID int64, viewAll bool) *Subscriber {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	sub := &Subscriber{
		ClientID: clientID,
		UserID:   userID,
		ViewAll:  viewAll,
		ch:       make(chan *model.AttendanceEventMessage, subscriberBuffer),
	}

	h.mu.Lock()
	if old, ok := h.subs[clientID]; ok {
		old.close()
	}
	h.subs[clientID] = sub
	h.mu.Unlock()

	logger.Logger.Info("Realtime subscriber registered",
		zap.String("client_id", clientID),
		zap.Int64("user_id", userID),
		zap.Bool("view_all", viewAll),
	)

	return sub
}

// Unsubscribe 注销订阅，幂等
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if current, ok := h.subs[sub.ClientID]; ok && current == sub {
		delete(h.subs, sub.ClientID)
	}
	h.mu.Unlock()

	sub.close()
}

// Broadcast 把事件投递给本实例所有有权接收的订阅者，返回实际投递数。
// 慢消费者的缓冲满时丢弃该条：客户端重连后会重新拉取列表。
func (h *Hub) Broadcast(evt *model.AttendanceEventMessage) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		if !sub.ViewAll && sub.UserID != evt.OwnerUserID {
			continue
		}

		if sub.send(evt) {
			delivered++
		} else {
			logger.Logger.Warn("Dropping event for slow subscriber",
				zap.String("client_id", sub.ClientID),
				zap.String("event_id", evt.EventID),
			)
		}
	}

	return delivered
}

// Count 当前在线订阅数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Events 订阅者的接收通道，hub 关闭订阅后通道关闭
func (s *Subscriber) Events() <-chan *model.AttendanceEventMessage {
	return s.ch
}

func (s *Subscriber) send(evt *model.AttendanceEventMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- evt:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
