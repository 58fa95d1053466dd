package errs

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidParams = New(BizCodeInvalidParams, ExitInvalidParams, "invalid params", nil)

	ErrTransport        = New(BizCodeTransport, ExitTransport, "transport error", nil)
	ErrNotFound         = New(BizCodeNotFound, ExitNotFound, "not found", nil)
	ErrIO               = New(BizCodeIO, ExitIO, "io error", nil)
	ErrFileExists       = New(BizCodeFileExists, ExitFileExists, "file already exists", nil)
	ErrChecksumMismatch = New(BizCodeChecksumMismatch, ExitChecksumMismatch, "sha256 check failed", nil)
)

type Error struct {
	bizCode  int
	exitCode int
	message  string
	details  any
	internal error
}

// NotFoundDetail names the selector that was not listed by its parent
// and the options the parent did list.
type NotFoundDetail struct {
	Kind      string
	ID        string
	Available []string
}

func (d NotFoundDetail) String() string {
	return fmt.Sprintf("%s <%s> not found", d.Kind, d.ID)
}

func New(bizCode, exitCode int, message string, internal error) *Error {
	return &Error{
		bizCode:  bizCode,
		exitCode: exitCode,
		message:  message,
		internal: internal,
	}
}

// Transport wraps a network or decoding failure.
func Transport(err error, format string, args ...any) *Error {
	return ErrTransport.Wrap(errors.WithMessagef(err, format, args...))
}

// IO wraps a local file failure.
func IO(err error, format string, args ...any) *Error {
	return ErrIO.Wrap(errors.WithMessagef(err, format, args...))
}

// NotFound builds a not found error for kind/id with the listed alternatives.
func NotFound(kind, id string, available []string) *Error {
	d := NotFoundDetail{Kind: kind, ID: id, Available: available}
	return ErrNotFound.WithMessage(d.String()).WithDetails(d)
}

func (e *Error) Error() string {

	if e.internal != nil {
		return fmt.Sprintf("%s: %v", e.message, e.internal)
	}

	return e.message
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	return ok && e.bizCode == t.BizCode()
}

func (e *Error) Unwrap() error {
	return e.internal
}

func (e *Error) BizCode() int {
	return e.bizCode
}

func (e *Error) ExitCode() int {
	return e.exitCode
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Details() any {
	return e.details
}

func (e *Error) Wrap(err error) *Error {
	return &Error{
		bizCode:  e.bizCode,
		exitCode: e.exitCode,
		message:  e.message,
		details:  e.details,
		internal: err,
	}
}

func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		bizCode:  e.bizCode,
		exitCode: e.exitCode,
		message:  msg,
		details:  e.details,
		internal: e.internal,
	}
}

func (e *Error) WithDetails(details any) *Error {

	return &Error{
		bizCode:  e.bizCode,
		exitCode: e.exitCode,
		message:  e.message,
		details:  details,
		internal: e.internal,
	}
}

// ExitCode resolves the process exit code for any error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitUnexpected
}

// NotFoundOf extracts the detail carried by a not found error.
func NotFoundOf(err error) (NotFoundDetail, bool) {
	var e *Error
	if !errors.As(err, &e) || e.BizCode() != BizCodeNotFound {
		return NotFoundDetail{}, false
	}
	d, ok := e.Details().(NotFoundDetail)
	return d, ok
}

// Hint renders the available options of a not found error, one per line.
func Hint(err error) string {
	d, ok := NotFoundOf(err)
	if !ok || len(d.Available) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("available %ss:\n", d.Kind))
	for _, a := range d.Available {
		b.WriteString("\t")
		b.WriteString(a)
		b.WriteString("\n")
	}
	return b.String()
}
