// Package apperr defines the typed failures the core returns to the request layer.
package apperr

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindAccessDenied    Kind = "access_denied"
	KindReorderMismatch Kind = "reorder_mismatch"
	KindColumnNotEmpty  Kind = "column_not_empty"
	KindCrossParent     Kind = "cross_parent_violation"
	KindConflict        Kind = "conflict"
	KindInvalid         Kind = "invalid"
	KindLimitReached    Kind = "limit_reached"
	KindInternal        Kind = "internal"
)

// Error is a classified failure. Op names the operation that produced it, Err keeps the cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any error of the same kind against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrAccessDenied    = &Error{Kind: KindAccessDenied}
	ErrReorderMismatch = &Error{Kind: KindReorderMismatch}
	ErrColumnNotEmpty  = &Error{Kind: KindColumnNotEmpty}
	ErrCrossParent     = &Error{Kind: KindCrossParent}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInvalid         = &Error{Kind: KindInvalid}
	ErrLimitReached    = &Error{Kind: KindLimitReached}
	ErrInternal        = &Error{Kind: KindInternal}
)

func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

func AccessDenied(format string, args ...any) *Error {
	return &Error{Kind: KindAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func ReorderMismatch(format string, args ...any) *Error {
	return &Error{Kind: KindReorderMismatch, Message: fmt.Sprintf(format, args...)}
}

func ColumnNotEmpty(columnID any, tasks int64) *Error {
	return &Error{
		Kind:    KindColumnNotEmpty,
		Message: fmt.Sprintf("column %v still holds %d task(s); a target column is required", columnID, tasks),
	}
}

func CrossParent(format string, args ...any) *Error {
	return &Error{Kind: KindCrossParent, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func LimitReached(format string, args ...any) *Error {
	return &Error{Kind: KindLimitReached, Message: fmt.Sprintf(format, args...)}
}

func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: "internal error", Err: err}
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsTyped reports whether err already carries a kind.
func IsTyped(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// Translate classifies a storage error for the given entity. Errors it does not recognise
// are returned wrapped and unclassified.
func Translate(err error, entity string, id any) error {
	switch {
	case err == nil:
		return nil
	case IsTyped(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity, id)
	case IsUniqueViolation(err):
		return &Error{Kind: KindConflict, Message: fmt.Sprintf("%s %v already exists", entity, id), Err: err}
	}
	return errors.Wrapf(err, "%s %v", entity, id)
}

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
