package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// submissionRetryAfter is advertised to clients that hit a running submission.
const submissionRetryAfter = 2

// HTTPError is the serialized form of a failed request. RetryAfter, in
// seconds, is sent as a header when set.
type HTTPError struct {
	Status     int
	Code       string
	Message    string
	RetryAfter int
	Err        error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError builds an HTTPError with an explicit status and code.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// submissionError maps a failed Submit onto a response. Codes the client can
// act on pass through; anything else is reported as submission_failed.
func submissionError(err error) *HTTPError {
	httpErr := &HTTPError{Message: errMessage(err), Err: err}
	switch code := apperrors.CodeOf(err); code {
	case dashboard.CodeInvalidInput:
		httpErr.Status, httpErr.Code = http.StatusBadRequest, "invalid_request"
	case dashboard.CodeSubmissionInProgress:
		httpErr.Status, httpErr.Code = http.StatusConflict, code
		httpErr.RetryAfter = submissionRetryAfter
	case dashboard.CodeWeatherUnavailable:
		httpErr.Status, httpErr.Code = http.StatusBadGateway, code
	case dashboard.CodeSubmissionCancelled:
		httpErr.Status, httpErr.Code = http.StatusServiceUnavailable, code
	default:
		httpErr.Status, httpErr.Code = http.StatusInternalServerError, "submission_failed"
	}
	return httpErr
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if apperrors.IsCode(err, dashboard.CodeProfileStore) {
		return NewHTTPError(http.StatusInternalServerError, dashboard.CodeProfileStore, errMessage(err), err)
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	if err.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(err.RetryAfter))
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
