package layout

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is.
var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrNoInput       = errors.New("no images provided")
	ErrAssetDecode   = errors.New("image could not be decoded")
	ErrRender        = errors.New("rendering failed")

	// ErrDoesNotFit is a configuration error for geometry that collapses to
	// nothing, such as a grid too fine for the page.
	ErrDoesNotFit = errors.New("layout does not fit on the page")
)

// Error carries an error kind, the failing operation and the cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewError wraps err with a kind and an operation name.
func NewError(kind error, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func configError(op, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Op: op, Err: fmt.Errorf(format, args...)}
}

func doesNotFit(op, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Op: op, Err: fmt.Errorf("%w: "+format, append([]any{ErrDoesNotFit}, args...)...)}
}

func noInput(op, msg string) error {
	return &Error{Kind: ErrNoInput, Op: op, Err: errors.New(msg)}
}

// StatusCode maps an error to an HTTP status: client mistakes are 400,
// everything else is 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNoInput), errors.Is(err, ErrConfiguration), errors.Is(err, ErrAssetDecode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
