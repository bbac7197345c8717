package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// Sentinel errors classifying platform and configuration failures.
// Callers pick between retry, skip and fallback with errors.Is instead
// of matching strings from the Discord API.
var (
	// ErrCapabilityMissing indicates the bot or the acting moderator lacks a
	// platform permission. Surfaced to the user, never retried.
	ErrCapabilityMissing = stderrors.New("falta un permiso para ejecutar la acción")

	// ErrPlatformTransient indicates a rate limit or transient HTTP failure.
	// The immediate caller retries at most once.
	ErrPlatformTransient = stderrors.New("fallo transitorio de la plataforma")

	// ErrNotFound indicates the target is already gone. Reversal paths treat
	// this as success and log at debug level.
	ErrNotFound = stderrors.New("el recurso ya no existe")

	// ErrConfigurationMissing indicates a guild has no stored policy. Resolved
	// by falling back to the compiled-in defaults, never fatal.
	ErrConfigurationMissing = stderrors.New("el servidor no tiene configuración guardada")
)

// HierarchyError is an authority gate denial. It is user-correctable and its
// message is surfaced verbatim by the command layer.
type HierarchyError struct {
	Reason  string
	Message string
}

// Error implements the error interface
func (e *HierarchyError) Error() string {
	return e.Message
}

// NewHierarchyError creates a gate denial with the given reason code
func NewHierarchyError(reason, format string, args ...interface{}) *HierarchyError {
	return &HierarchyError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsHierarchy reports whether err is an authority gate denial
func IsHierarchy(err error) bool {
	var he *HierarchyError
	return stderrors.As(err, &he)
}

// Classify maps a raw platform error onto the taxonomy. The original error is
// wrapped so its message survives for logging. Unknown errors pass through
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if stderrors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrCapabilityMissing, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrPlatformTransient, err)
		default:
			if rest.Response.StatusCode >= 500 {
				return fmt.Errorf("%w: %v", ErrPlatformTransient, err)
			}
		}
	}

	if stderrors.Is(err, discordgo.ErrStateNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return err
}

// IsNotFound reports whether err means the target is already gone
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsTransient reports whether err is worth a single retry
func IsTransient(err error) bool {
	return stderrors.Is(err, ErrPlatformTransient)
}

// IsCapabilityMissing reports whether err is a permission failure
func IsCapabilityMissing(err error) bool {
	return stderrors.Is(err, ErrCapabilityMissing)
}

// Is re-exports errors.Is so callers don't need a second import alias
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// New re-exports errors.New
func New(text string) error {
	return stderrors.New(text)
}
