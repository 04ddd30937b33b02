package errs

import (
	stderr "errors"

	"github.com/pkg/errors"
)

// CodeError is the wire-level error shape every REST handler answers with.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	if e.Detail != "" {
		return e.Msg + ": " + e.Detail
	}
	return e.Msg
}

func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// Wrap attaches a call stack via pkg/errors.
func (e *CodeError) Wrap() error {
	return errors.WithStack(e)
}

func (e *CodeError) WrapMsg(msg string) error {
	return errors.Wrap(e, msg)
}

// Is matches by code so wrapped CodeErrors still compare.
func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !stderr.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

func New(msg string) error { return errors.New(msg) }

var (
	ErrInvalidParam   = NewCodeError(1001, "invalid parameter")
	ErrTokenExpired   = NewCodeError(1101, "token expired or invalid")
	ErrRecordNotFound = NewCodeError(1201, "record not found")
	ErrRecordIsExist  = NewCodeError(1202, "record already exists")
	ErrInternal       = NewCodeError(1500, "internal error")
)
