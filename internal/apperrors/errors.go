package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

type Kind string

const (
	// KindUnavailable covers network failures and upstream 5xx responses
	// from the language model service.
	KindUnavailable Kind = "unavailable"
	KindRateLimit   Kind = "rate_limit"
	KindAuth        Kind = "auth"
	// KindBadRequest means the upstream API rejected a request we built
	// (unknown model, oversized prompt). Not a client problem.
	KindBadRequest Kind = "bad_request"
	// KindInvalidInput is a client-side validation failure.
	KindInvalidInput Kind = "invalid_input"
	KindSynthesis    Kind = "synthesis"

	// Upload validation kinds, mirroring the HTTP statuses they map to.
	KindTooLarge         Kind = "too_large"
	KindUnsupportedMedia Kind = "unsupported_media"
	KindUnprocessable    Kind = "unprocessable"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindUnavailable:
		return "Language service unavailable. Please try again later."
	case KindRateLimit:
		return "Language service is rate limited. Please try again later."
	case KindAuth:
		return "Language service rejected the configured credentials."
	case KindBadRequest:
		return "Language service rejected the request."
	case KindInvalidInput:
		return "Invalid request."
	case KindSynthesis:
		return "Speech synthesis failed."
	case KindTooLarge:
		return "File is too large."
	case KindUnsupportedMedia:
		return "Unsupported file type."
	case KindUnprocessable:
		return "Could not extract text from the file."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Unavailable(err error) error {
	return New(KindUnavailable, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func BadRequest(err error) error {
	return New(KindBadRequest, "", err)
}

// InvalidInput builds a client-facing validation error. The message is
// shown verbatim, so it must not contain document content.
func InvalidInput(msg string) error {
	return New(KindInvalidInput, msg, nil)
}

func Synthesis(err error) error {
	return New(KindSynthesis, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// HTTPStatus maps an error to the response code the API should emit.
// Upstream credential and request-shape problems are deployment issues,
// so they report as bad gateway rather than blaming the client.
func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindAuth, KindBadRequest:
		return http.StatusBadGateway
	case KindSynthesis:
		return http.StatusInternalServerError
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
