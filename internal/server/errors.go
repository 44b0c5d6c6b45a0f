package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

var errBadDate = echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")

// badRequests are domain errors reported to the client as 400.
var badRequests = []error{
	schedule.ErrUnknownRef,
	schedule.ErrMissingCourse,
	schedule.ErrMissingTeacher,
	schedule.ErrMissingRoom,
	schedule.ErrInvalidDay,
	schedule.ErrEndBeforeStart,
	schedule.ErrNegativeStudents,
	schedule.ErrInvalidTimeFormat,
}

// newHTTPErrorHandler maps store and validation errors to status codes.
// Anything unrecognised is logged and reported as 500.
func newHTTPErrorHandler(log *zap.Logger, fv *formValidator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message any

		var httpErr *echo.HTTPError
		var valErrs validator.ValidationErrors
		var conflict *schedule.ConflictError

		switch {
		case errors.As(err, &httpErr):
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &valErrs):
			code = http.StatusBadRequest
			message = fv.fieldErrors(valErrs)
		case errors.As(err, &conflict):
			code = http.StatusConflict
			message = conflict.Error()
		case errors.Is(err, schedule.ErrNotFound):
			code = http.StatusNotFound
			message = "not found"
		case isBadRequest(err):
			code = http.StatusBadRequest
			message = err.Error()
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			log.Warn("writing error response", zap.Error(err))
		}
	}
}

func isBadRequest(err error) bool {
	for _, target := range badRequests {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
