package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "car-rental/pkg/errors"

	"github.com/labstack/echo/v4"
)

const maxInspectedBody = 1 << 20

// IDSource declares where a route carries the id of the resource it touches.
type IDSource interface {
	Extract(c echo.Context) (string, error)
}

type paramSource string

// FromParam reads the id from a path parameter.
func FromParam(name string) IDSource { return paramSource(name) }

func (p paramSource) Extract(c echo.Context) (string, error) {
	id := strings.TrimSpace(c.Param(string(p)))
	if id == "" {
		return "", apperrors.ErrResourceIDMissing
	}
	return id, nil
}

type bodySource string

// FromBody reads the id from a top-level field of a JSON body.
// The body is restored so the handler can bind it again.
func FromBody(field string) IDSource { return bodySource(field) }

func (b bodySource) Extract(c echo.Context) (string, error) {
	req := c.Request()
	if req.Body == nil {
		return "", apperrors.ErrResourceIDMissing
	}
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxInspectedBody+1))
	if err != nil {
		return "", apperrors.ErrBadRequest.With(err, nil)
	}
	_ = req.Body.Close()
	if len(raw) > maxInspectedBody {
		return "", apperrors.ErrPayloadTooLarge
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", apperrors.ErrResourceIDMissing.With(err, nil)
	}

	// encoding/json binds keys case-insensitively, so every variant of the
	// field name has to agree on the single key the handler will see.
	matches := 0
	for key := range payload {
		if strings.EqualFold(key, string(b)) {
			matches++
		}
	}
	if matches > 1 {
		return "", apperrors.ErrResourceIDAmbiguous
	}

	var id string
	switch v := payload[string(b)].(type) {
	case string:
		id = strings.TrimSpace(v)
	case float64:
		id = fmt.Sprintf("%.0f", v)
	}
	if id == "" {
		return "", apperrors.ErrResourceIDMissing
	}
	return id, nil
}
