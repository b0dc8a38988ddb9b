package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHttpErrorIsMatchesKindAndReason(t *testing.T) {
	wrapped := ErrNotFound.WithMessage("rent not found")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrNotOwner))

	withCause := ErrTokenInvalid.With(fmt.Errorf("signature is invalid"), nil)
	assert.True(t, errors.Is(withCause, ErrTokenInvalid))
	assert.Equal(t, "token not valid", withCause.Message)

	outer := fmt.Errorf("lookup: %w", ErrRoleMismatch)
	assert.True(t, errors.Is(outer, ErrRoleMismatch))
}

func TestSentinelsAreNotMutatedByCopies(t *testing.T) {
	_ = ErrBadRequest.WithMessage("changed")
	assert.Equal(t, "bad request", ErrBadRequest.Message)
}

func TestCredentialReasonsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrIdentifierNotFound, ErrSecretMismatch))
	assert.Equal(t, KindCredential, ErrIdentifierNotFound.Kind)
	assert.Equal(t, KindCredential, ErrSecretMismatch.Kind)
}

func TestNewHttpErrorDerivesKind(t *testing.T) {
	cases := map[int]Kind{
		http.StatusBadRequest:          KindValidation,
		http.StatusUnauthorized:        KindAuth,
		http.StatusForbidden:           KindAuthz,
		http.StatusNotFound:            KindNotFound,
		http.StatusConflict:            KindConflict,
		http.StatusTooManyRequests:     KindRateLimit,
		http.StatusInternalServerError: KindInfra,
	}
	for code, kind := range cases {
		assert.Equal(t, kind, NewHttpError(code, "x", nil, nil).Kind, "code %d", code)
	}
}

func TestInfraErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInfraError(cause, map[string]interface{}{"rentID": "r1"})
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternalServer)
	assert.Equal(t, http.StatusInternalServerError, err.Code)
}
