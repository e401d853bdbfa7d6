package evidence

import (
	"encoding/base64"
	"strings"

	"DakaHR/internal/model/dto"
	"DakaHR/pkg/errors"
)

// CaptureState 前端取证流程的状态，提交时必须为 submitted
const (
	CaptureStateViewfinder = "viewfinder"
	CaptureStatePending    = "still_pending"
	CaptureStateSubmitted  = "submitted"
)

// GeoPoint 打卡定位
type GeoPoint struct {
	Lat      float64
	Lng      float64
	Accuracy float64
}

// Payload 一次打卡提交的证据
type Payload struct {
	Image    string // data URI
	Location *GeoPoint
}

// Validator 证据校验器，规则来自配置：照片大小上限与是否强制定位
type Validator struct {
	MaxPhotoBytes   int
	RequireLocation bool
}

func NewValidator(maxPhotoBytes int, requireLocation bool) *Validator {
	return &Validator{
		MaxPhotoBytes:   maxPhotoBytes,
		RequireLocation: requireLocation,
	}
}

var allowedImagePrefixes = []string{
	"data:image/jpeg;base64,",
	"data:image/png;base64,",
}

// FromRequest 从打卡请求构造证据并完成全部校验。
// 定位缺失与其他校验失败区分开：前者返回 LocationUnavailable。
func (v *Validator) FromRequest(req *dto.ClockRequest) (*Payload, error) {
	if req.CaptureState != CaptureStateSubmitted {
		return nil, errors.EvidenceInvalid
	}

	if err := v.validateImage(req.Photo); err != nil {
		return nil, err
	}

	payload := &Payload{Image: req.Photo}

	if req.Location != nil {
		if req.Location.Lat < -90 || req.Location.Lat > 90 ||
			req.Location.Lng < -180 || req.Location.Lng > 180 {
			return nil, errors.EvidenceInvalid
		}
		payload.Location = &GeoPoint{
			Lat:      req.Location.Lat,
			Lng:      req.Location.Lng,
			Accuracy: req.Location.Accuracy,
		}
	} else if v.RequireLocation {
		return nil, errors.LocationUnavailable
	}

	return payload, nil
}

func (v *Validator) validateImage(dataURI string) error {
	if dataURI == "" {
		return errors.EvidenceInvalid
	}

	var b64 string
	for _, prefix := range allowedImagePrefixes {
		if strings.HasPrefix(dataURI, prefix) {
			b64 = dataURI[len(prefix):]
			break
		}
	}
	if b64 == "" {
		return errors.EvidenceInvalid
	}

	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return errors.EvidenceInvalid
	}
	if len(decoded) == 0 || len(decoded) > v.MaxPhotoBytes {
		return errors.EvidenceInvalid
	}

	return nil
}
