package contract

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/calendar"
	leavesvc "github.com/cmlabs-hris/homecare-backend-go/internal/service/leave"
	"github.com/shopspring/decimal"
)

type ContractService struct {
	repo       contract.Repository
	balances   leave.BalanceService
	calculator *leavesvc.AccrualCalculator
	now        func() time.Time
}

func NewContractService(repo contract.Repository, balances leave.BalanceService, calculator *leavesvc.AccrualCalculator) *ContractService {
	return &ContractService{
		repo:       repo,
		balances:   balances,
		calculator: calculator,
		now:        time.Now,
	}
}

// CreateContract implements contract.Service.
func (s *ContractService) CreateContract(ctx context.Context, req contract.CreateContractRequest) (contract.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return contract.ContractResponse{}, err
	}

	startDate, _ := calendar.ParseDate(req.StartDate)

	created, err := s.repo.Create(ctx, contract.Contract{
		EmployeeID:   req.EmployeeID,
		EmployerID:   req.EmployerID,
		EmployeeName: req.EmployeeName,
		StartDate:    startDate,
		WeeklyHours:  req.WeeklyHours,
		Status:       contract.StatusActive,
	})
	if err != nil {
		return contract.ContractResponse{}, err
	}

	slog.Info("Contract created",
		"contract_id", created.ID,
		"employee_id", created.EmployeeID,
		"employer_id", created.EmployerID,
	)

	if req.HasInitialBalance() {
		s.seedBalance(ctx, created, req)
	}

	return contract.NewContractResponse(created), nil
}

// seedBalance writes the current leave-year balance from the figures given at
// registration. The contract stays created when it fails.
func (s *ContractService) seedBalance(ctx context.Context, c contract.Contract, req contract.CreateContractRequest) {
	leaveYear := s.balances.CurrentLeaveYear()

	var acquired decimal.Decimal
	if req.InitialMonthsWorked != nil {
		acquired = s.calculator.AcquiredDaysFromMonths(*req.InitialMonthsWorked)
	} else {
		var err error
		acquired, err = s.calculator.AcquiredDays(c.AccrualInfo(), leaveYear, s.now())
		if err != nil {
			slog.Error("Failed to compute initial leave balance", "contract_id", c.ID, "error", err)
			return
		}
	}

	taken := decimal.Zero
	if req.InitialTakenDays != nil {
		taken = *req.InitialTakenDays
	}

	balance, err := s.balances.InitializeLeaveBalanceWithOverride(ctx, c.ID, c.EmployeeID, c.EmployerID, leaveYear, acquired, taken)
	if err != nil {
		slog.Error("Failed to seed leave balance",
			"contract_id", c.ID,
			"leave_year", leaveYear,
			"error", err,
		)
		return
	}

	slog.Info("Leave balance seeded",
		"contract_id", c.ID,
		"leave_year", balance.LeaveYear,
		"acquired_days", balance.AcquiredDays.String(),
		"taken_days", balance.TakenDays.String(),
	)
}

// GetContract implements contract.Service. Only the two parties may read it.
func (s *ContractService) GetContract(ctx context.Context, contractID, callerID string) (contract.ContractResponse, error) {
	c, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return contract.ContractResponse{}, err
	}

	if c.EmployeeID != callerID && c.EmployerID != callerID {
		return contract.ContractResponse{}, contract.ErrContractForbidden
	}

	return contract.NewContractResponse(c), nil
}

var _ contract.Service = (*ContractService)(nil)
