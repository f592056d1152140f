package service

import (
	"fmt"
)

// ErrorKind 业务错误类别，处理层据此映射到 HTTP 状态码
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindSelfFollow      ErrorKind = "self_follow"
	KindDuplicateFollow ErrorKind = "duplicate_follow"
	KindNotFollowing    ErrorKind = "not_following"
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindTooManyAttempts ErrorKind = "too_many_attempts"
)

// Error 带类别与可读原因的业务错误。
// errors.Is 只比较类别，因此 errors.Is(err, ErrNotFound) 对任何 not_found 错误都成立。
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Reason: "resource not found"}
	ErrForbidden       = &Error{Kind: KindForbidden, Reason: "access denied: mutual follow required"}
	ErrFollowSelf      = &Error{Kind: KindSelfFollow, Reason: "cannot follow self"}
	ErrDuplicateFollow = &Error{Kind: KindDuplicateFollow, Reason: "already following this user"}
	ErrNotFollowing    = &Error{Kind: KindNotFollowing, Reason: "not following this user"}
	ErrValidation      = &Error{Kind: KindValidation, Reason: "invalid input"}
	ErrUsernameTaken   = &Error{Kind: KindConflict, Reason: "username already taken"}
	ErrBadCredentials  = &Error{Kind: KindUnauthorized, Reason: "invalid username or password"}
	ErrTooManyAttempts = &Error{Kind: KindTooManyAttempts, Reason: "too many failed login attempts, try again later"}
)

func userNotFound(username string) *Error {
	return newError(KindNotFound, "user %q not found", username)
}

func postNotFound(id uint64) *Error {
	return newError(KindNotFound, "post %d not found", id)
}
