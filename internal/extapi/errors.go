package extapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/five82/blockext/internal/extension"
)

// Error codes carried in the server's failure envelope.
const (
	CodeEmptyInput     = "EXT_001"
	CodeTooLong        = "EXT_002"
	CodeContainsDigit  = "EXT_003"
	CodeContainsScript = "EXT_004"
	CodeAlreadyExists  = "EXT_005"
	CodeNotFound       = "EXT_006"
	CodeLimitExceeded  = "EXT_007"
	CodeFixedConflict  = "EXT_008"
)

// Sentinel errors for the HTTP error classes the server uses.
var (
	ErrInvalid       = errors.New("invalid request")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// APIError is a non-2xx response from the extensions API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Path    string
}

func (e *APIError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, msg)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Is maps the response status onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalid:
		return e.Status == http.StatusBadRequest
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrLimitExceeded:
		return e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// Message returns the text to show the user for err: the server-supplied
// message when there is one, the validation warning for rejected input, and
// fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		return fallback
	}
	var verr *extension.ValidationError
	if errors.As(err, &verr) {
		return verr.Warning()
	}
	return fallback
}
