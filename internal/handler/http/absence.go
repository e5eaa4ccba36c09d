package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/homecare-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/homecare-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	absenceService absence.Service
}

func NewAbsenceHandler(absenceService absence.Service) AbsenceHandler {
	return &absenceHandlerImpl{absenceService: absenceService}
}

// callerIdentity reads the identity set by middleware.AuthRequired.
func callerIdentity(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrMissingIdentity)
		return user.Identity{}, false
	}
	return identity, true
}

// uuidParam reads a UUID path parameter and answers 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if !validator.IsValidUUID(value) {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: "must be a valid UUID"})
		return "", false
	}
	return value, true
}

func (h *absenceHandlerImpl) decodeCreateRequest(w http.ResponseWriter, r *http.Request) (absence.CreateAbsenceRequest, bool) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return absence.CreateAbsenceRequest{}, false
	}

	var req absence.CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Absence request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return absence.CreateAbsenceRequest{}, false
	}

	// Employee comes from the token, never from the body
	req.EmployeeID = identity.UserID
	return req, true
}

// Create implements AbsenceHandler.
func (h *absenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCreateRequest(w, r)
	if !ok {
		return
	}

	created, err := h.absenceService.CreateAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence requested successfully", created)
}

// Validate implements AbsenceHandler.
func (h *absenceHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCreateRequest(w, r)
	if !ok {
		return
	}

	result, err := h.absenceService.ValidateAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMy implements AbsenceHandler.
func (h *absenceHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	filter := absence.MyAbsenceFilter{
		Status:      optionalQueryParam(r, "status"),
		AbsenceType: optionalQueryParam(r, "absence_type"),
		StartDate:   optionalQueryParam(r, "start_date"),
		EndDate:     optionalQueryParam(r, "end_date"),
		Page:        getIntQueryParam(r, "page", 1),
		Limit:       getIntQueryParam(r, "limit", 20),
	}

	list, err := h.absenceService.ListMyAbsences(r.Context(), identity.UserID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Absences, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// Get implements AbsenceHandler.
func (h *absenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	absenceID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.absenceService.GetAbsence(r.Context(), absenceID, identity.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, a)
}

// Approve implements AbsenceHandler.
func (h *absenceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	absenceID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.absenceService.ApproveAbsence(r.Context(), absenceID, identity.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence approved successfully", a)
}

// Reject implements AbsenceHandler.
func (h *absenceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	absenceID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.absenceService.RejectAbsence(r.Context(), absenceID, identity.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence rejected successfully", a)
}

// Cancel implements AbsenceHandler.
func (h *absenceHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	absenceID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.absenceService.CancelAbsence(r.Context(), absenceID, identity.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence cancelled successfully", nil)
}
