package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证与权限相关错误。
var (
	Unauthorized  = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden     = Definition{Code: "FORBIDDEN", Message: "Operation not permitted"}
	UserNotFound  = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	InvalidUserID = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
)

// 通用请求错误。
var (
	ValidationError = Definition{Code: "VALIDATION_ERROR", Message: "Request validation failed"}
	NotFound        = Definition{Code: "NOT_FOUND", Message: "Record not found"}
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// 打卡会话错误。
var (
	InvalidState = Definition{Code: "INVALID_STATE", Message: "Action not allowed in current session state"}
	RecordExists = Definition{Code: "RECORD_EXISTS", Message: "Attendance record already exists for this date"}
)

// 打卡证据错误。
var (
	EvidenceInvalid     = Definition{Code: "EVIDENCE_INVALID", Message: "Evidence payload invalid"}
	LocationUnavailable = Definition{Code: "LOCATION_UNAVAILABLE", Message: "Location is required but unavailable"}
)

// 审核模块错误。
var (
	NoEvidence     = Definition{Code: "NO_EVIDENCE", Message: "No evidence to verify on this leg"}
	AlreadyDecided = Definition{Code: "ALREADY_DECIDED", Message: "Leg has already been verified or rejected"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:        Unauthorized,
	Forbidden.Code:           Forbidden,
	UserNotFound.Code:        UserNotFound,
	InvalidUserID.Code:       InvalidUserID,
	ValidationError.Code:     ValidationError,
	NotFound.Code:            NotFound,
	TooManyRequests.Code:     TooManyRequests,
	InvalidState.Code:        InvalidState,
	RecordExists.Code:        RecordExists,
	EvidenceInvalid.Code:     EvidenceInvalid,
	LocationUnavailable.Code: LocationUnavailable,
	NoEvidence.Code:          NoEvidence,
	AlreadyDecided.Code:      AlreadyDecided,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
