package errors

import "errors"

// token 相关的内部哨兵错误，不直接暴露给 HTTP 响应。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator is not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")
)

// Is 转发标准库 errors.Is，便于调用方只导入本包。
func Is(err, target error) bool {
	return errors.Is(err, target)
}
