package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "car-rental/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Body    interface{} `json:"body,omitempty"`
}

// SuccessResponse writes the envelope. When total is given and the client asked
// for pagination the body is wrapped into {list, pagination}.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	if len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.QueryParams())
		if filter.WithPagination {
			response.Body = map[string]interface{}{
				"list":       body,
				"pagination": NewPagination(total[0], filter),
			}
			return ctx.JSON(code, response)
		}
	}
	response.Body = body
	return ctx.JSON(code, response)
}

// ErrorResponse maps an error onto the envelope. Causes are logged, never returned.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		fields := []zap.Field{
			zap.Int("code", httpErr.Code),
			zap.String("reason", httpErr.Reason),
			zap.String("message", httpErr.Message),
			zap.Any("context", httpErr.Context),
			zap.String("path", c.Path()),
		}
		switch {
		case httpErr.Code >= http.StatusInternalServerError:
			logger.Error("HTTP Error", append(fields, zap.Error(httpErr.Err))...)
		case httpErr.Err != nil:
			logger.Warn("HTTP Error", append(fields, zap.Error(httpErr.Err))...)
		}

		return c.JSON(httpErr.Code, &HTTPResponse{
			Status:  false,
			Message: httpErr.Message,
			Code:    httpErr.Reason,
			Body:    httpErr.Details,
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			details[e.Field()] = e.Tag()
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{
			Status:  false,
			Message: "validation failed: " + strings.Join(msgs, "; "),
			Code:    apperrors.ErrBadRequest.Reason,
			Body:    details,
		})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, &HTTPResponse{
			Status:  false,
			Message: fmt.Sprint(echoErr.Message),
		})
	}

	logger.Error("Unexpected Error", zap.Error(err), zap.String("path", c.Path()))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{
		Status:  false,
		Message: apperrors.ErrInternalServer.Message,
		Code:    apperrors.ErrInternalServer.Reason,
	})
}
