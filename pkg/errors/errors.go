package errors

import (
	"fmt"
	"net/http"
)

// Kind groups errors by what went wrong, independent of the HTTP code.
type Kind string

const (
	KindCredential Kind = "credential"
	KindAuth       Kind = "auth"
	KindAuthz      Kind = "authz"
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindRateLimit  Kind = "rate_limit"
	KindInfra      Kind = "infra"
)

// HttpError is the single error type that crosses the service/controller boundary.
// Reason is the machine-readable code returned to the client.
type HttpError struct {
	Code    int
	Kind    Kind
	Reason  string
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

// Is matches on kind and reason so that wrapped copies of a sentinel
// (different message, cause or context) still compare equal.
func (e *HttpError) Is(target error) bool {
	t, ok := target.(*HttpError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

// With returns a copy carrying a cause and log context.
func (e *HttpError) With(err error, ctx map[string]interface{}) *HttpError {
	cp := *e
	cp.Err = err
	cp.Context = ctx
	return &cp
}

// WithMessage returns a copy with a different user-facing message.
func (e *HttpError) WithMessage(msg string) *HttpError {
	cp := *e
	cp.Message = msg
	return &cp
}

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Kind:    kindForCode(code),
		Reason:  reasonForCode(code),
		Message: message,
		Err:     err,
		Context: ctx,
	}
}

func kindForCode(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusForbidden:
		return KindAuthz
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimit
	}
	return KindInfra
}

func reasonForCode(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not-found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "too-many-requests"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "bad-request"
	}
	if code >= 500 {
		return "internal"
	}
	return "error"
}

func newErr(code int, kind Kind, reason, message string) *HttpError {
	return &HttpError{Code: code, Kind: kind, Reason: reason, Message: message}
}

var (
	// Token issuance
	ErrIdentifierNotFound = newErr(http.StatusUnauthorized, KindCredential, "identifier-not-found", "e-mail does not exist")
	ErrSecretMismatch     = newErr(http.StatusUnauthorized, KindCredential, "secret-mismatch", "password does not match our records")
	ErrTooManyAttempts    = newErr(http.StatusTooManyRequests, KindRateLimit, "too-many-attempts", "too many failed login attempts, try again later")

	// Token verification
	ErrTokenMissing = newErr(http.StatusBadRequest, KindAuth, "missing", "token not provided")
	ErrTokenInvalid = newErr(http.StatusUnauthorized, KindAuth, "invalid-or-expired", "token not valid")

	// Gates
	ErrRoleMismatch        = newErr(http.StatusForbidden, KindAuthz, "role-mismatch", "wrong permissions")
	ErrNotOwner            = newErr(http.StatusForbidden, KindAuthz, "not-owner", "unauthorized access")
	ErrResourceIDMissing   = newErr(http.StatusBadRequest, KindValidation, "missing-resource-id", "resource id not provided")
	ErrResourceIDAmbiguous = newErr(http.StatusBadRequest, KindValidation, "ambiguous-resource-id", "resource id given more than once")
	ErrPayloadTooLarge     = newErr(http.StatusRequestEntityTooLarge, KindValidation, "payload-too-large", "request body too large")

	// General
	ErrNotFound       = newErr(http.StatusNotFound, KindNotFound, "not-found", "record not found")
	ErrBadRequest     = newErr(http.StatusBadRequest, KindValidation, "bad-request", "bad request")
	ErrConflict       = newErr(http.StatusConflict, KindConflict, "conflict", "conflict")
	ErrInternalServer = newErr(http.StatusInternalServerError, KindInfra, "internal", "internal server error")
)

func NewBadRequestError(message string) *HttpError {
	return ErrBadRequest.WithMessage(message)
}

func NewNotFoundError(message string) *HttpError {
	return ErrNotFound.WithMessage(message)
}

func NewConflictError(message string) *HttpError {
	return ErrConflict.WithMessage(message)
}

// NewInfraError wraps a storage/transport failure. The cause is logged, never returned to the client.
func NewInfraError(err error, ctx map[string]interface{}) *HttpError {
	return ErrInternalServer.With(err, ctx)
}
