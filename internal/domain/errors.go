package domain

import "errors"

// 业务哨兵错误：handler 统一映射到 HTTP 状态码
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError 输入/业务规则错误（400），不触库直接返回
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validation(reason string) error { return &ValidationError{Reason: reason} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
