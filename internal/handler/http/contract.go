package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/handler/http/response"
)

type ContractHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type contractHandlerImpl struct {
	contractService contract.Service
}

func NewContractHandler(contractService contract.Service) ContractHandler {
	return &contractHandlerImpl{contractService: contractService}
}

// Create implements ContractHandler. The caller becomes the employer.
func (h *contractHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req contract.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateContract decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployerID = identity.UserID

	created, err := h.contractService.CreateContract(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Contract created successfully", created)
}

// Get implements ContractHandler.
func (h *contractHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	contractID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.contractService.GetContract(r.Context(), contractID, identity.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, c)
}
