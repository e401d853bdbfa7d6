package mq

import (
	"fmt"
	"testing"

	"DakaHR/pkg/errors"
)

func TestShouldRequeue(t *testing.T) {
	if shouldRequeue(&errors.SkipMessageError{Reason: "duplicate message"}) {
		t.Fatal("skip errors must be acked, not requeued")
	}

	wrapped := fmt.Errorf("handle rejection notify: %w", &errors.SkipMessageError{Reason: "sms template not configured"})
	if shouldRequeue(wrapped) {
		t.Fatal("wrapped skip errors must be acked, not requeued")
	}

	if !shouldRequeue(fmt.Errorf("database unavailable")) {
		t.Fatal("real failures must go back to the queue")
	}
}
