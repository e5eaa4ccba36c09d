package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var failure *absence.ValidationFailure
	if errors.As(err, &failure) {
		RuleViolation(w, "Absence request rejected", failure.Violations)
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrMissingIdentity),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, jwt.ErrInvalidTokenClaims):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, user.ErrEmployeeAccessRequired),
		errors.Is(err, user.ErrEmployerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Absence domain errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, absence.ErrAbsenceOverlap):
		Conflict(w, absence.ErrAbsenceOverlap.Error())
	case errors.Is(err, absence.ErrAbsenceAlreadyDecided):
		Conflict(w, "Absence already decided")
	case errors.Is(err, absence.ErrInvalidStatusTransition):
		Conflict(w, "Absence can no longer be changed")
	case errors.Is(err, absence.ErrNotAbsenceOwner),
		errors.Is(err, absence.ErrNotAbsenceEmployer):
		Forbidden(w, err.Error())
	case errors.Is(err, absence.ErrContractRequired):
		BadRequest(w, "contract_id is required when working for several employers", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrLeaveBalanceExists):
		Conflict(w, "Leave balance already exists")
	case errors.Is(err, leave.ErrInvalidDays),
		errors.Is(err, leave.ErrInvalidLeaveYear):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrNotBalanceEmployer):
		Forbidden(w, err.Error())

	// Contract domain errors
	case errors.Is(err, contract.ErrContractNotFound):
		NotFound(w, "Contract not found")
	case errors.Is(err, contract.ErrContractForbidden):
		Forbidden(w, err.Error())

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
