package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

type BalanceService struct {
	repo       leave.BalanceRepository
	calculator *AccrualCalculator
	locks      *keyedMutex

	leaveYearStartMonth time.Month
	now                 func() time.Time
}

func NewBalanceService(repo leave.BalanceRepository, calculator *AccrualCalculator, leaveYearStartMonth time.Month) *BalanceService {
	if leaveYearStartMonth == 0 {
		leaveYearStartMonth = calendar.DefaultLeaveYearStartMonth
	}
	return &BalanceService{
		repo:                repo,
		calculator:          calculator,
		locks:               newKeyedMutex(),
		leaveYearStartMonth: leaveYearStartMonth,
		now:                 time.Now,
	}
}

func balanceKey(contractID, leaveYear string) string {
	return contractID + "|" + leaveYear
}

// CurrentLeaveYear implements leave.BalanceService.
func (s *BalanceService) CurrentLeaveYear() string {
	return calendar.LeaveYear(s.now(), s.leaveYearStartMonth)
}

// GetLeaveBalance implements leave.BalanceService.
func (s *BalanceService) GetLeaveBalance(ctx context.Context, contractID, leaveYear string) (leave.LeaveBalance, error) {
	return s.repo.GetByContractAndYear(ctx, contractID, leaveYear)
}

// InitializeLeaveBalance implements leave.BalanceService. It does not look for
// an existing row; a duplicate surfaces as leave.ErrLeaveBalanceExists.
func (s *BalanceService) InitializeLeaveBalance(ctx context.Context, contractID, employeeID, employerID, leaveYear string, contract leave.ContractInfo) (leave.LeaveBalance, error) {
	acquired, err := s.calculator.AcquiredDays(contract, leaveYear, s.now())
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	unlock := s.locks.Lock(balanceKey(contractID, leaveYear))
	defer unlock()

	balance, err := s.repo.Create(ctx, leave.LeaveBalance{
		ContractID:     contractID,
		EmployeeID:     employeeID,
		EmployerID:     employerID,
		LeaveYear:      leaveYear,
		AcquiredDays:   acquired,
		TakenDays:      decimal.Zero,
		AdjustmentDays: decimal.Zero,
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	slog.Debug("Leave balance initialized",
		"contract_id", contractID,
		"leave_year", leaveYear,
		"acquired_days", acquired.String(),
	)
	return balance, nil
}

// AccrueLeaveBalance implements leave.BalanceService.
func (s *BalanceService) AccrueLeaveBalance(ctx context.Context, contractID, leaveYear string, contract leave.ContractInfo) (leave.LeaveBalance, error) {
	earned, err := s.calculator.AcquiredDays(contract, leaveYear, s.now())
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	unlock := s.locks.Lock(balanceKey(contractID, leaveYear))
	defer unlock()

	current, err := s.repo.GetByContractAndYear(ctx, contractID, leaveYear)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	if !earned.GreaterThan(current.AcquiredDays) {
		return current, nil
	}

	updated, err := s.repo.RaiseAcquired(ctx, contractID, leaveYear, earned)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	slog.Debug("Leave days accrued",
		"contract_id", contractID,
		"leave_year", leaveYear,
		"previous_days", current.AcquiredDays.String(),
		"acquired_days", updated.AcquiredDays.String(),
	)
	return updated, nil
}

// InitializeLeaveBalanceWithOverride implements leave.BalanceService.
func (s *BalanceService) InitializeLeaveBalanceWithOverride(ctx context.Context, contractID, employeeID, employerID, leaveYear string, acquiredDays, takenDays decimal.Decimal) (*leave.LeaveBalance, error) {
	if _, _, err := calendar.LeaveYearBounds(leaveYear, s.leaveYearStartMonth); err != nil {
		return nil, fmt.Errorf("%w: %v", leave.ErrInvalidLeaveYear, err)
	}

	unlock := s.locks.Lock(balanceKey(contractID, leaveYear))
	defer unlock()

	balance, err := s.repo.Create(ctx, leave.LeaveBalance{
		ContractID:     contractID,
		EmployeeID:     employeeID,
		EmployerID:     employerID,
		LeaveYear:      leaveYear,
		AcquiredDays:   acquiredDays,
		TakenDays:      takenDays,
		AdjustmentDays: decimal.Zero,
	})
	if err != nil {
		return nil, err
	}

	return &balance, nil
}

// AddTakenDays implements leave.BalanceService.
func (s *BalanceService) AddTakenDays(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error {
	if !days.IsPositive() {
		return leave.ErrInvalidDays
	}

	unlock := s.locks.Lock(balanceKey(contractID, leaveYear))
	defer unlock()

	if err := s.repo.IncrementTaken(ctx, contractID, leaveYear, days); err != nil {
		return err
	}

	slog.Info("Leave days taken", "contract_id", contractID, "leave_year", leaveYear, "days", days.String())
	return nil
}

// RestoreTakenDays implements leave.BalanceService. taken_days never goes
// below zero; restoring more than was taken is logged as an inconsistency.
func (s *BalanceService) RestoreTakenDays(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error {
	if !days.IsPositive() {
		return leave.ErrInvalidDays
	}

	unlock := s.locks.Lock(balanceKey(contractID, leaveYear))
	defer unlock()

	previous, err := s.repo.DecrementTaken(ctx, contractID, leaveYear, days)
	if err != nil {
		return err
	}

	if previous.LessThan(days) {
		slog.Warn("Leave balance restore clamped at zero",
			"contract_id", contractID,
			"leave_year", leaveYear,
			"taken_days", previous.String(),
			"restored_days", days.String(),
		)
	}
	return nil
}

// ListLeaveBalances implements leave.BalanceService.
func (s *BalanceService) ListLeaveBalances(ctx context.Context, employeeID string) ([]leave.LeaveBalanceResponse, error) {
	balances, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(b))
	}
	return responses, nil
}

// AdjustLeaveBalance implements leave.BalanceService.
func (s *BalanceService) AdjustLeaveBalance(ctx context.Context, req leave.AdjustLeaveBalanceRequest) (leave.LeaveBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	unlock := s.locks.Lock(balanceKey(req.ContractID, req.LeaveYear))
	defer unlock()

	current, err := s.repo.GetByContractAndYear(ctx, req.ContractID, req.LeaveYear)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	if current.EmployerID != req.EmployerID {
		return leave.LeaveBalanceResponse{}, leave.ErrNotBalanceEmployer
	}

	updated, err := s.repo.AddAdjustment(ctx, req.ContractID, req.LeaveYear, req.Delta)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
			return leave.LeaveBalanceResponse{}, err
		}
		return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	slog.Info("Leave balance adjusted",
		"contract_id", req.ContractID,
		"leave_year", req.LeaveYear,
		"delta", req.Delta.String(),
		"reason", req.Reason,
		"employer_id", req.EmployerID,
	)
	return leave.NewLeaveBalanceResponse(updated), nil
}

var _ leave.BalanceService = (*BalanceService)(nil)
