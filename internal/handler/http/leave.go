package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	AdjustBalance(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	balanceService  leave.BalanceService
	contractService contract.Service
}

func NewLeaveHandler(balanceService leave.BalanceService, contractService contract.Service) LeaveHandler {
	return &LeaveHandlerImpl{
		balanceService:  balanceService,
		contractService: contractService,
	}
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	balances, err := l.balanceService.ListLeaveBalances(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetBalance implements LeaveHandler. Readable by both parties of the contract.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	contractID, ok := uuidParam(w, r, "contractID")
	if !ok {
		return
	}
	if _, err := l.contractService.GetContract(r.Context(), contractID, identity.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveYear := r.URL.Query().Get("leave_year")
	if leaveYear == "" {
		leaveYear = l.balanceService.CurrentLeaveYear()
	}

	balance, err := l.balanceService.GetLeaveBalance(r.Context(), contractID, leaveYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveBalanceResponse(balance))
}

// AdjustBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	contractID, ok := uuidParam(w, r, "contractID")
	if !ok {
		return
	}

	var req leave.AdjustLeaveBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AdjustBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ContractID = contractID
	req.EmployerID = identity.UserID

	balance, err := l.balanceService.AdjustLeaveBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance adjusted successfully", balance)
}
