package errors

import "errors"

// SkipMessageError 消费者用：消息应当被 Ack 掉但不算处理失败（重复消息、业务上无需发送等）
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

// IsSkipMessageError 判断错误链上是否为跳过消息
func IsSkipMessageError(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
