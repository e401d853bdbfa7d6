package evidence

import (
	"encoding/base64"
	"strings"
	"testing"

	"DakaHR/internal/model/dto"
	"DakaHR/pkg/errors"
)

func validPhoto() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
}

func TestFromRequestAcceptsValidPayload(t *testing.T) {
	v := NewValidator(1024, false)

	payload, err := v.FromRequest(&dto.ClockRequest{
		Photo:        validPhoto(),
		CaptureState: CaptureStateSubmitted,
		Location:     &dto.GeoPointData{Lat: 14.5995, Lng: 120.9842, Accuracy: 12},
	})
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if payload.Location == nil || payload.Location.Lat != 14.5995 {
		t.Fatalf("location not carried through: %+v", payload.Location)
	}
}

func TestFromRequestRejectsUnsubmittedCapture(t *testing.T) {
	v := NewValidator(1024, false)

	for _, state := range []string{CaptureStateViewfinder, CaptureStatePending, "", "done"} {
		_, err := v.FromRequest(&dto.ClockRequest{Photo: validPhoto(), CaptureState: state})
		if err != errors.EvidenceInvalid {
			t.Fatalf("capture state %q: expected EvidenceInvalid, got %v", state, err)
		}
	}
}

func TestFromRequestMissingLocation(t *testing.T) {
	required := NewValidator(1024, true)
	optional := NewValidator(1024, false)

	req := &dto.ClockRequest{Photo: validPhoto(), CaptureState: CaptureStateSubmitted}

	if _, err := required.FromRequest(req); err != errors.LocationUnavailable {
		t.Fatalf("expected LocationUnavailable, got %v", err)
	}

	payload, err := optional.FromRequest(req)
	if err != nil {
		t.Fatalf("optional location should pass: %v", err)
	}
	if payload.Location != nil {
		t.Fatalf("expected nil location")
	}
}

func TestFromRequestRejectsBadImages(t *testing.T) {
	v := NewValidator(16, false)

	cases := []struct {
		name  string
		photo string
	}{
		{"empty", ""},
		{"no data uri", "just-some-text"},
		{"wrong mime", "data:text/plain;base64,aGVsbG8="},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!"},
		{"oversized", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 64)))},
	}

	for _, c := range cases {
		_, err := v.FromRequest(&dto.ClockRequest{Photo: c.photo, CaptureState: CaptureStateSubmitted})
		if err != errors.EvidenceInvalid {
			t.Fatalf("%s: expected EvidenceInvalid, got %v", c.name, err)
		}
	}
}

func TestFromRequestRejectsOutOfRangeCoordinates(t *testing.T) {
	v := NewValidator(1024, true)

	_, err := v.FromRequest(&dto.ClockRequest{
		Photo:        validPhoto(),
		CaptureState: CaptureStateSubmitted,
		Location:     &dto.GeoPointData{Lat: 91, Lng: 0},
	})
	if err != errors.EvidenceInvalid {
		t.Fatalf("expected EvidenceInvalid for lat 91, got %v", err)
	}
}
