package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	status, detail := errorFor(err)
	writeJSON(w, status, Response{Success: false, Error: detail})
}

// HandleErrorWithData writes the error together with data, so the page can
// re-render from the current state and show the message inline.
func HandleErrorWithData(w http.ResponseWriter, err error, data interface{}) {
	status, detail := errorFor(err)
	writeJSON(w, status, Response{Success: false, Data: data, Error: detail})
}

func errorFor(err error) (int, *ErrorDetail) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: validationErrs.Message(),
			Details: validationErrs.ToMap(),
		}
	}

	switch {
	// Session errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, jwt.ErrMissingSessionID):
		return http.StatusUnauthorized, &ErrorDetail{Code: "UNAUTHORIZED", Message: "Session expired, please sign in again"}
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusBadGateway, &ErrorDetail{Code: "UPSTREAM_ERROR", Message: err.Error()}

	// Attendance view errors
	case errors.Is(err, attendance.ErrReloadFailed):
		return http.StatusBadGateway, &ErrorDetail{Code: "RELOAD_FAILED", Message: err.Error()}
	case errors.Is(err, attendance.ErrNoEmployeeSelected),
		errors.Is(err, attendance.ErrNoDaySelected),
		errors.Is(err, attendance.ErrInvalidMonth),
		errors.Is(err, attendance.ErrInvalidStatus):
		return http.StatusBadRequest, &ErrorDetail{Code: "BAD_REQUEST", Message: err.Error()}

	// Employee errors
	case errors.Is(err, employee.ErrInvalidStatus):
		return http.StatusBadRequest, &ErrorDetail{Code: "BAD_REQUEST", Message: err.Error()}
	}

	// Remote API errors keep their message; client errors keep their status.
	if apiErr, ok := apiclient.AsError(err); ok {
		status := http.StatusBadGateway
		if apiErr.Kind == apiclient.KindApplication && apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		return status, &ErrorDetail{Code: "UPSTREAM_ERROR", Message: apiErr.Message}
	}

	return http.StatusInternalServerError, &ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: "An unexpected error occurred"}
}
