package absence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// errDryRun aborts the validation transaction so nothing it touched is kept.
var errDryRun = errors.New("dry run")

type AbsenceService struct {
	tx           database.Transactor
	absenceRepo  absence.Repository
	contractRepo contract.Repository
	shiftRepo    shift.Repository
	balances     leave.BalanceService
	notifier     notification.Notifier

	leaveYearStartMonth time.Month
}

func NewAbsenceService(
	tx database.Transactor,
	absenceRepo absence.Repository,
	contractRepo contract.Repository,
	shiftRepo shift.Repository,
	balances leave.BalanceService,
	notifier notification.Notifier,
	leaveYearStartMonth time.Month,
) *AbsenceService {
	if leaveYearStartMonth == 0 {
		leaveYearStartMonth = calendar.DefaultLeaveYearStartMonth
	}
	return &AbsenceService{
		tx:                  tx,
		absenceRepo:         absenceRepo,
		contractRepo:        contractRepo,
		shiftRepo:           shiftRepo,
		balances:            balances,
		notifier:            notifier,
		leaveYearStartMonth: leaveYearStartMonth,
	}
}

// CreateAbsence implements absence.Service.
func (s *AbsenceService) CreateAbsence(ctx context.Context, req absence.CreateAbsenceRequest) (absence.CreateAbsenceResponse, error) {
	candidate, err := s.buildCandidate(&req)
	if err != nil {
		return absence.CreateAbsenceResponse{}, err
	}

	var (
		created absence.Absence
		result  absence.ValidationResult
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.absenceRepo.LockEmployee(ctx, candidate.EmployeeID); err != nil {
			return err
		}

		var err error
		result, err = s.evaluate(ctx, &candidate, req.ContractID)
		if err != nil {
			return err
		}
		if !result.Valid() {
			return result.Err()
		}

		candidate.Status = absence.StatusPending
		created, err = s.absenceRepo.Create(ctx, candidate)
		return err
	})
	if err != nil {
		return absence.CreateAbsenceResponse{}, err
	}

	slog.Info("Absence requested",
		"absence_id", created.ID,
		"employee_id", created.EmployeeID,
		"absence_type", created.Type,
		"business_days", created.BusinessDaysCount,
	)

	s.notifyEmployers(ctx, created)

	return absence.CreateAbsenceResponse{
		Absence:  absence.NewAbsenceResponse(created),
		Warnings: result.Warnings,
	}, nil
}

// ValidateAbsence implements absence.Service. It runs the same checks as
// CreateAbsence inside a transaction that is always rolled back.
func (s *AbsenceService) ValidateAbsence(ctx context.Context, req absence.CreateAbsenceRequest) (absence.ValidationResult, error) {
	candidate, err := s.buildCandidate(&req)
	if err != nil {
		return absence.ValidationResult{}, err
	}

	var result absence.ValidationResult
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.evaluate(ctx, &candidate, req.ContractID)
		if err != nil {
			return err
		}
		return errDryRun
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return absence.ValidationResult{}, err
	}

	return result, nil
}

// buildCandidate turns a validated request into an unsaved absence.
func (s *AbsenceService) buildCandidate(req *absence.CreateAbsenceRequest) (absence.Absence, error) {
	if err := req.Validate(); err != nil {
		return absence.Absence{}, err
	}

	start, _ := calendar.ParseDate(req.StartDate)
	end, _ := calendar.ParseDate(req.EndDate)

	candidate := absence.Absence{
		EmployeeID:       req.EmployeeID,
		Type:             absence.AbsenceType(req.AbsenceType),
		StartDate:        start,
		EndDate:          end,
		Reason:           req.Reason,
		JustificationURL: req.JustificationURL,
	}

	if candidate.Type == absence.TypeFamilyEvent && req.FamilyEventType != nil {
		fe := absence.FamilyEventType(*req.FamilyEventType)
		candidate.FamilyEventType = &fe
	}

	return candidate, nil
}

// evaluate loads what the validator needs, runs it and fills the derived
// fields of candidate.
func (s *AbsenceService) evaluate(ctx context.Context, candidate *absence.Absence, contractID *string) (absence.ValidationResult, error) {
	existing, err := s.absenceRepo.ListBlockingByEmployee(ctx, candidate.EmployeeID)
	if err != nil {
		return absence.ValidationResult{}, fmt.Errorf("failed to load existing absences: %w", err)
	}

	var balance *leave.LeaveBalance
	if candidate.Type == absence.TypeVacation {
		c, err := s.resolveContract(ctx, candidate.EmployeeID, contractID)
		if err != nil {
			return absence.ValidationResult{}, err
		}
		if c != nil {
			leaveYear := calendar.LeaveYear(candidate.StartDate, s.leaveYearStartMonth)
			candidate.ContractID = &c.ID
			candidate.LeaveYear = &leaveYear

			balance, err = s.getOrInitializeBalance(ctx, *c, leaveYear)
			if err != nil {
				return absence.ValidationResult{}, err
			}
		}
	}

	result := ValidateAbsenceRequest(*candidate, existing, balance)

	candidate.BusinessDaysCount = calendar.CountBusinessDays(candidate.StartDate, candidate.EndDate)
	if candidate.Type == absence.TypeSick {
		due := absence.CalculateJustificationDueDate(candidate.StartDate)
		candidate.JustificationDueDate = &due
	}

	return result, nil
}

// resolveContract picks the contract a vacation is charged to. It returns nil
// when the employee has no usable contract, which the validator reports as a
// missing balance.
func (s *AbsenceService) resolveContract(ctx context.Context, employeeID string, contractID *string) (*contract.Contract, error) {
	if contractID != nil {
		c, err := s.contractRepo.GetByID(ctx, *contractID)
		if err != nil {
			return nil, err
		}
		if c.EmployeeID != employeeID {
			return nil, contract.ErrContractForbidden
		}
		if !c.IsActive() {
			return nil, nil
		}
		return &c, nil
	}

	contracts, err := s.contractRepo.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}

	switch len(contracts) {
	case 0:
		return nil, nil
	case 1:
		return &contracts[0], nil
	default:
		return nil, absence.ErrContractRequired
	}
}

// getOrInitializeBalance returns the balance of c for leaveYear with the
// days earned up to today, creating it on first use.
func (s *AbsenceService) getOrInitializeBalance(ctx context.Context, c contract.Contract, leaveYear string) (*leave.LeaveBalance, error) {
	balance, err := s.balances.AccrueLeaveBalance(ctx, c.ID, leaveYear, c.AccrualInfo())
	if err == nil {
		return &balance, nil
	}
	if !errors.Is(err, leave.ErrLeaveBalanceNotFound) {
		return nil, fmt.Errorf("failed to load leave balance: %w", err)
	}

	balance, err = s.balances.InitializeLeaveBalance(ctx, c.ID, c.EmployeeID, c.EmployerID, leaveYear, c.AccrualInfo())
	if errors.Is(err, leave.ErrLeaveBalanceExists) {
		balance, err = s.balances.AccrueLeaveBalance(ctx, c.ID, leaveYear, c.AccrualInfo())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize leave balance: %w", err)
	}

	return &balance, nil
}

// notifyEmployers tells every employer the caregiver currently works for.
func (s *AbsenceService) notifyEmployers(ctx context.Context, a absence.Absence) {
	contracts, err := s.contractRepo.ListActiveByEmployee(ctx, a.EmployeeID)
	if err != nil {
		slog.Error("Failed to load employers for absence notification", "absence_id", a.ID, "error", err)
		return
	}

	notified := make(map[string]bool, len(contracts))
	for _, c := range contracts {
		if notified[c.EmployerID] {
			continue
		}
		notified[c.EmployerID] = true
		s.notifier.NotifyAbsenceRequested(ctx, c.EmployerID, c.EmployeeName, string(a.Type), a.StartDate, a.EndDate)
	}
}

// authorizeEmployer checks employerID may decide on a.
func (s *AbsenceService) authorizeEmployer(ctx context.Context, a absence.Absence, employerID string) error {
	if a.ContractID != nil {
		c, err := s.contractRepo.GetByID(ctx, *a.ContractID)
		if err != nil && !errors.Is(err, contract.ErrContractNotFound) {
			return err
		}
		if err == nil && c.EmployerID == employerID {
			return nil
		}
	}

	ok, err := s.contractRepo.HasActiveContract(ctx, a.EmployeeID, employerID)
	if err != nil {
		return err
	}
	if !ok {
		return absence.ErrNotAbsenceEmployer
	}
	return nil
}

func (s *AbsenceService) decide(ctx context.Context, absenceID, employerID string, next absence.Status) (absence.Absence, error) {
	current, err := s.absenceRepo.GetByID(ctx, absenceID)
	if err != nil {
		return absence.Absence{}, err
	}

	if err := s.authorizeEmployer(ctx, current, employerID); err != nil {
		return absence.Absence{}, err
	}

	if err := current.Status.CanTransitionTo(next); err != nil {
		return absence.Absence{}, err
	}

	decided, err := s.absenceRepo.Decide(ctx, absenceID, next, employerID)
	if err != nil {
		return absence.Absence{}, err
	}

	slog.Info("Absence decided",
		"absence_id", decided.ID,
		"status", decided.Status,
		"employer_id", employerID,
	)
	return decided, nil
}

// ApproveAbsence implements absence.Service. The status change is committed
// first; balance and shift updates that follow are logged on failure.
func (s *AbsenceService) ApproveAbsence(ctx context.Context, absenceID, employerID string) (absence.AbsenceResponse, error) {
	approved, err := s.decide(ctx, absenceID, employerID, absence.StatusApproved)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if chargesBalance(approved) {
		days := decimal.NewFromInt(int64(approved.BusinessDaysCount))
		if err := s.balances.AddTakenDays(ctx, *approved.ContractID, *approved.LeaveYear, days); err != nil {
			slog.Error("Approved absence not charged to leave balance, needs reconciliation",
				"absence_id", approved.ID,
				"contract_id", *approved.ContractID,
				"leave_year", *approved.LeaveYear,
				"days", approved.BusinessDaysCount,
				"error", err,
			)
		}
	}

	cancelled, err := s.shiftRepo.CancelPlannedShifts(ctx, approved.EmployeeID, approved.StartDate, approved.EndDate)
	if err != nil {
		slog.Warn("Failed to cancel planned shifts", "absence_id", approved.ID, "error", err)
	} else if cancelled > 0 {
		slog.Info("Planned shifts cancelled", "absence_id", approved.ID, "count", cancelled)
	}

	s.notifier.NotifyAbsenceResolved(ctx, approved.EmployeeID, approved.ID, string(approved.Status), approved.StartDate, approved.EndDate)

	return absence.NewAbsenceResponse(approved), nil
}

// RejectAbsence implements absence.Service.
func (s *AbsenceService) RejectAbsence(ctx context.Context, absenceID, employerID string) (absence.AbsenceResponse, error) {
	rejected, err := s.decide(ctx, absenceID, employerID, absence.StatusRejected)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	s.notifier.NotifyAbsenceResolved(ctx, rejected.EmployeeID, rejected.ID, string(rejected.Status), rejected.StartDate, rejected.EndDate)

	return absence.NewAbsenceResponse(rejected), nil
}

// CancelAbsence implements absence.Service. Only the owner may cancel, and
// only while the absence is pending or approved.
func (s *AbsenceService) CancelAbsence(ctx context.Context, absenceID, employeeID string) error {
	current, err := s.absenceRepo.GetByID(ctx, absenceID)
	if err != nil {
		return err
	}
	if current.EmployeeID != employeeID {
		return absence.ErrNotAbsenceOwner
	}

	if !current.Status.CanBeCancelled() {
		return absence.ErrInvalidStatusTransition
	}

	deleted, err := s.absenceRepo.Delete(ctx, absenceID, current.Status)
	if err != nil {
		return err
	}

	slog.Info("Absence cancelled", "absence_id", deleted.ID, "status", deleted.Status)

	if deleted.Status == absence.StatusApproved && chargesBalance(deleted) {
		days := decimal.NewFromInt(int64(deleted.BusinessDaysCount))
		if err := s.balances.RestoreTakenDays(ctx, *deleted.ContractID, *deleted.LeaveYear, days); err != nil {
			slog.Error("Cancelled absence not restored to leave balance, needs reconciliation",
				"absence_id", deleted.ID,
				"contract_id", *deleted.ContractID,
				"leave_year", *deleted.LeaveYear,
				"days", deleted.BusinessDaysCount,
				"error", err,
			)
		}
	}

	return nil
}

// GetAbsence implements absence.Service. The caller must be the employee or
// one of their current employers.
func (s *AbsenceService) GetAbsence(ctx context.Context, absenceID, callerID string) (absence.AbsenceResponse, error) {
	a, err := s.absenceRepo.GetByID(ctx, absenceID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if a.EmployeeID != callerID {
		if err := s.authorizeEmployer(ctx, a, callerID); err != nil {
			return absence.AbsenceResponse{}, err
		}
	}

	return absence.NewAbsenceResponse(a), nil
}

// ListMyAbsences implements absence.Service.
func (s *AbsenceService) ListMyAbsences(ctx context.Context, employeeID string, filter absence.MyAbsenceFilter) (absence.ListAbsenceResponse, error) {
	if err := filter.Validate(); err != nil {
		return absence.ListAbsenceResponse{}, err
	}
	filter.Normalize()

	absences, total, err := s.absenceRepo.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return absence.ListAbsenceResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	responses := make([]absence.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		responses = append(responses, absence.NewAbsenceResponse(a))
	}

	return absence.ListAbsenceResponse{
		Absences:   responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// chargesBalance reports whether a consumes paid-leave days.
func chargesBalance(a absence.Absence) bool {
	return a.Type == absence.TypeVacation &&
		a.ContractID != nil &&
		a.LeaveYear != nil &&
		a.BusinessDaysCount > 0
}

var _ absence.Service = (*AbsenceService)(nil)
