package response

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
	"carbazaar/pkg/utils"
)

type Response struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Pagination *utils.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
	Code       string            `json:"code,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// Paginated writes items next to their pagination block. items must be a
// non-nil slice so an empty page is rendered as [] rather than null.
func Paginated(c echo.Context, items interface{}, pagination utils.Pagination) error {
	return c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       items,
		Pagination: &pagination,
		Timestamp:  now(),
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("%s %s: %v", c.Request().Method, c.Request().URL.Path, appErr.Err)
		}
		return c.JSON(appErr.Status, Response{
			Success:   false,
			Code:      appErr.Code,
			Message:   appErr.Message,
			Timestamp: now(),
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return c.JSON(httpErr.Code, Response{
			Success:   false,
			Code:      strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_")),
			Message:   message,
			Timestamp: now(),
		})
	}

	logger.Error("%s %s: unhandled error: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, Response{
		Success:   false,
		Code:      apperrors.CodeInternal,
		Message:   "An unexpected error occurred",
		Timestamp: now(),
	})
}

// HTTPErrorHandler renders errors escaping handlers (bind failures, unknown
// routes, middleware rejections) in the same envelope as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if writeErr := Error(c, err); writeErr != nil {
		logger.Error("failed to write error response: %v", writeErr)
	}
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	message := "Invalid input data"
	if len(validationErr) > 0 {
		message = validationMessage(validationErr[0])
	}

	return c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Code:      "VALIDATION_ERROR",
		Message:   message,
		Timestamp: now(),
	})
}

func validationMessage(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + param
	case "max":
		return field + " must be at most " + param
	case "gt":
		return field + " must be greater than " + param
	case "gte":
		return field + " must be greater than or equal to " + param
	case "oneof":
		return field + " must be one of: " + param
	case "url":
		return field + " must be a valid URL"
	case "dive":
		return field + " contains an invalid entry"
	default:
		return field + " is invalid"
	}
}
