package donation

import (
	"errors"
	"fmt"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
)

// Kind classifies why a donation could not be started.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConfiguration
	KindConnectivity
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindConnectivity:
		return "connectivity"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidAmount = errors.New("invalid donation amount")
	ErrNotConfigured = errors.New("payment backend not configured")
	ErrConnectivity  = errors.New("payment backend unreachable")
	ErrUpstream      = errors.New("payment backend rejected request")
)

const (
	msgInvalidAmount   = "Please enter a valid donation amount of at least $1"
	msgAmountTooLarge  = "Please enter a donation amount of at most $999,999.99"
	msgNotConfigured   = "Payment system is not configured. Please contact the museum directly at %s to make a donation."
	msgConnectivity    = "Unable to connect to payment service. Please check your internet connection or contact the museum directly."
	msgUnavailable     = "Payment system is temporarily unavailable"
	msgNotDeployed     = "Payment service is not available. The Edge Functions may not be deployed yet."
	msgAuthFailed      = "Payment service authentication failed. The Stripe integration may not be properly configured."
	msgServerError     = "Server error occurred. This may be due to missing Stripe configuration."
	msgMissingRedirect = "Payment system returned no checkout address"
)

// Error carries the user-facing message for a failed donation attempt.
// Status is the backend's HTTP status for upstream failures and 0 otherwise.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidAmount:
		return e.Kind == KindValidation
	case ErrNotConfigured:
		return e.Kind == KindConfiguration
	case ErrConnectivity:
		return e.Kind == KindConnectivity
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

// UserMessage returns the text to show the donor for err.
func UserMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "An unexpected error occurred"
}

func validationError(cause error) *Error {
	msg := msgInvalidAmount
	if errors.Is(cause, domain.ErrAmountAboveMaximum) {
		msg = msgAmountTooLarge
	}
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}

// upstreamMessage picks the message for a non-2xx backend reply. Known
// statuses win over whatever the backend put in its body.
func upstreamMessage(status int, backendMsg string) string {
	switch status {
	case 404:
		return msgNotDeployed
	case 401:
		return msgAuthFailed
	case 500:
		return msgServerError
	}
	if backendMsg != "" {
		return backendMsg
	}
	return msgUnavailable
}
