package realtime

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"DakaHR/internal/model"
	"DakaHR/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func drain(t *testing.T, sub *Subscriber) []*model.AttendanceEventMessage {
	t.Helper()
	var got []*model.AttendanceEventMessage
	for {
		select {
		case evt, ok := <-sub.Events():
			if !ok {
				return got
			}
			got = append(got, evt)
		default:
			return got
		}
	}
}

func TestBroadcastFiltersByOwner(t *testing.T) {
	hub := NewHub()
	owner := hub.Subscribe("c-owner", 100, false)
	other := hub.Subscribe("c-other", 200, false)
	admin := hub.Subscribe("c-admin", 300, true)

	evt := &model.AttendanceEventMessage{EventID: "evt_1", Type: model.EventNew, OwnerUserID: 100}
	delivered := hub.Broadcast(evt)
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}

	if got := drain(t, owner); len(got) != 1 || got[0].EventID != "evt_1" {
		t.Fatalf("owner should receive own event, got %v", got)
	}
	if got := drain(t, other); len(got) != 0 {
		t.Fatalf("other employee should not receive the event, got %v", got)
	}
	if got := drain(t, admin); len(got) != 1 {
		t.Fatalf("view_all subscriber should receive the event, got %v", got)
	}
}

func TestSubscribeReplacesSameClient(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("client-1", 100, false)
	second := hub.Subscribe("client-1", 100, false)

	if hub.Count() != 1 {
		t.Fatalf("expected 1 subscriber after re-subscribe, got %d", hub.Count())
	}

	// 旧订阅的通道被关闭
	if _, ok := <-first.Events(); ok {
		t.Fatal("old subscription channel should be closed")
	}

	hub.Broadcast(&model.AttendanceEventMessage{EventID: "evt_2", OwnerUserID: 100})
	if got := drain(t, second); len(got) != 1 {
		t.Fatalf("replacement subscription should receive events, got %v", got)
	}
}

func TestSubscribeGeneratesClientID(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("", 1, false)
	b := hub.Subscribe("", 1, false)
	if a.ClientID == "" || b.ClientID == "" {
		t.Fatal("generated client IDs should not be empty")
	}
	if a.ClientID == b.ClientID {
		t.Fatal("generated client IDs should be unique")
	}
	if hub.Count() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", hub.Count())
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("client-1", 100, false)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(nil)

	if hub.Count() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", hub.Count())
	}
	if delivered := hub.Broadcast(&model.AttendanceEventMessage{OwnerUserID: 100}); delivered != 0 {
		t.Fatalf("expected no deliveries after unsubscribe, got %d", delivered)
	}
}

// 同 clientID 被替换后，Unsubscribe 旧句柄不能误删新订阅
func TestUnsubscribeStaleHandleKeepsReplacement(t *testing.T) {
	hub := NewHub()
	old := hub.Subscribe("client-1", 100, false)
	hub.Subscribe("client-1", 100, false)

	hub.Unsubscribe(old)
	if hub.Count() != 1 {
		t.Fatalf("stale unsubscribe should not remove replacement, got %d subscribers", hub.Count())
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("slow", 100, false)

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Broadcast(&model.AttendanceEventMessage{OwnerUserID: 100})
	}

	if got := drain(t, sub); len(got) != subscriberBuffer {
		t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, len(got))
	}
}
