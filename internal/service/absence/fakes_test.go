package absence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// snapshotter is a fake store whose writes a failed transaction discards.
type snapshotter interface {
	snapshot() (restore func())
}

type fakeTransactor struct {
	calls     int
	rollbacks int
	stores    []snapshotter
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++

	restores := make([]func(), 0, len(f.stores))
	for _, s := range f.stores {
		restores = append(restores, s.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		f.rollbacks++
		return err
	}
	return nil
}

// fakeAbsenceRepo enforces the no-overlap constraint like the database does.
type fakeAbsenceRepo struct {
	mu       sync.Mutex
	absences map[string]absence.Absence
	locks    []string
}

func newFakeAbsenceRepo() *fakeAbsenceRepo {
	return &fakeAbsenceRepo{absences: make(map[string]absence.Absence)}
}

func (f *fakeAbsenceRepo) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	saved := make(map[string]absence.Absence, len(f.absences))
	for id, a := range f.absences {
		saved[id] = a
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.absences = saved
	}
}

func (f *fakeAbsenceRepo) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, other := range f.absences {
		if other.EmployeeID == a.EmployeeID && other.Status.Blocks() && other.Overlaps(a.StartDate, a.EndDate) {
			return absence.Absence{}, absence.ErrAbsenceOverlap
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	f.absences[a.ID] = a
	return a, nil
}

func (f *fakeAbsenceRepo) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (f *fakeAbsenceRepo) ListBlockingByEmployee(ctx context.Context, employeeID string) ([]absence.Absence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]absence.Absence, 0)
	for _, a := range f.absences {
		if a.EmployeeID == employeeID && a.Status.Blocks() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAbsenceRepo) ListByEmployee(ctx context.Context, employeeID string, filter absence.MyAbsenceFilter) ([]absence.Absence, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]absence.Absence, 0)
	for _, a := range f.absences {
		if a.EmployeeID != employeeID {
			continue
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartDate.After(matched[j].StartDate) })

	total := int64(len(matched))
	from := (filter.Page - 1) * filter.Limit
	if from > len(matched) {
		from = len(matched)
	}
	to := from + filter.Limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], total, nil
}

func (f *fakeAbsenceRepo) Decide(ctx context.Context, id string, status absence.Status, decidedBy string) (absence.Absence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	if a.Status != absence.StatusPending {
		return absence.Absence{}, absence.ErrAbsenceAlreadyDecided
	}
	now := time.Now()
	a.Status = status
	a.DecidedBy = &decidedBy
	a.DecidedAt = &now
	f.absences[id] = a
	return a, nil
}

func (f *fakeAbsenceRepo) Delete(ctx context.Context, id string, expected absence.Status) (absence.Absence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	if a.Status != expected || !a.Status.CanBeCancelled() {
		return absence.Absence{}, absence.ErrInvalidStatusTransition
	}
	delete(f.absences, id)
	return a, nil
}

func (f *fakeAbsenceRepo) LockEmployee(ctx context.Context, employeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, employeeID)
	return nil
}

func (f *fakeAbsenceRepo) ListOverdueJustifications(ctx context.Context, asOf time.Time, limit int) ([]absence.Absence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]absence.Absence, 0)
	for _, a := range f.absences {
		if a.Type == absence.TypeSick && a.Status != absence.StatusRejected &&
			a.JustificationURL == nil && a.JustificationReminderSentAt == nil &&
			a.JustificationDueDate != nil && a.JustificationDueDate.Before(asOf) {
			out = append(out, a)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAbsenceRepo) MarkJustificationReminderSent(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.absences[id]
	if !ok {
		return absence.ErrAbsenceNotFound
	}
	a.JustificationReminderSentAt = &at
	f.absences[id] = a
	return nil
}

type fakeContractRepo struct {
	contracts map[string]contract.Contract
}

func newFakeContractRepo(contracts ...contract.Contract) *fakeContractRepo {
	repo := &fakeContractRepo{contracts: make(map[string]contract.Contract)}
	for _, c := range contracts {
		repo.contracts[c.ID] = c
	}
	return repo
}

func (f *fakeContractRepo) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	f.contracts[c.ID] = c
	return c, nil
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id string) (contract.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrContractNotFound
	}
	return c, nil
}

func (f *fakeContractRepo) ListActiveByEmployee(ctx context.Context, employeeID string) ([]contract.Contract, error) {
	out := make([]contract.Contract, 0)
	for _, c := range f.contracts {
		if c.EmployeeID == employeeID && c.IsActive() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContractRepo) ListActive(ctx context.Context) ([]contract.Contract, error) {
	out := make([]contract.Contract, 0)
	for _, c := range f.contracts {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContractRepo) HasActiveContract(ctx context.Context, employeeID, employerID string) (bool, error) {
	for _, c := range f.contracts {
		if c.EmployeeID == employeeID && c.EmployerID == employerID && c.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

type cancelCall struct {
	EmployeeID string
	Start, End time.Time
}

type fakeShiftRepo struct {
	calls []cancelCall
	err   error
}

func (f *fakeShiftRepo) CancelPlannedShifts(ctx context.Context, employeeID string, start, end time.Time) (int64, error) {
	f.calls = append(f.calls, cancelCall{EmployeeID: employeeID, Start: start, End: end})
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

type sentNotification struct {
	Kind        string
	RecipientID string
	Detail      string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (f *fakeNotifier) NotifyAbsenceRequested(ctx context.Context, employerID, employeeName, absenceType string, start, end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Kind: "requested", RecipientID: employerID, Detail: absenceType})
}

func (f *fakeNotifier) NotifyAbsenceResolved(ctx context.Context, employeeID, absenceID, status string, start, end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Kind: "resolved", RecipientID: employeeID, Detail: status})
}

func (f *fakeNotifier) NotifyJustificationOverdue(ctx context.Context, employeeID, absenceID string, dueDate time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Kind: "overdue", RecipientID: employeeID, Detail: absenceID})
}

func (f *fakeNotifier) byKind(kind string) []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentNotification
	for _, n := range f.sent {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]leave.LeaveBalance

	incrementErr error
	decrementErr error
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
}

func (f *fakeBalanceRepo) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	saved := make(map[string]leave.LeaveBalance, len(f.balances))
	for k, b := range f.balances {
		saved[k] = b
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.balances = saved
	}
}

func key(contractID, leaveYear string) string {
	return contractID + "|" + leaveYear
}

func (f *fakeBalanceRepo) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[key(b.ContractID, b.LeaveYear)]; ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceExists
	}
	b.ID = uuid.New().String()
	f.balances[key(b.ContractID, b.LeaveYear)] = b
	return b, nil
}

func (f *fakeBalanceRepo) GetByContractAndYear(ctx context.Context, contractID, leaveYear string) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[key(contractID, leaveYear)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return b, nil
}

func (f *fakeBalanceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveBalance
	for _, b := range f.balances {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) IncrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		return f.incrementErr
	}
	b, ok := f.balances[key(contractID, leaveYear)]
	if !ok {
		return leave.ErrLeaveBalanceNotFound
	}
	b.TakenDays = b.TakenDays.Add(days)
	f.balances[key(contractID, leaveYear)] = b
	return nil
}

func (f *fakeBalanceRepo) DecrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decrementErr != nil {
		return decimal.Zero, f.decrementErr
	}
	b, ok := f.balances[key(contractID, leaveYear)]
	if !ok {
		return decimal.Zero, leave.ErrLeaveBalanceNotFound
	}
	previous := b.TakenDays
	b.TakenDays = decimal.Max(b.TakenDays.Sub(days), decimal.Zero)
	f.balances[key(contractID, leaveYear)] = b
	return previous, nil
}

func (f *fakeBalanceRepo) AddAdjustment(ctx context.Context, contractID, leaveYear string, delta decimal.Decimal) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[key(contractID, leaveYear)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	b.AdjustmentDays = b.AdjustmentDays.Add(delta)
	f.balances[key(contractID, leaveYear)] = b
	return b, nil
}

func (f *fakeBalanceRepo) RaiseAcquired(ctx context.Context, contractID, leaveYear string, acquired decimal.Decimal) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[key(contractID, leaveYear)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	b.AcquiredDays = decimal.Max(b.AcquiredDays, acquired)
	f.balances[key(contractID, leaveYear)] = b
	return b, nil
}

// staleAbsenceRepo serves reads from a copy taken before a concurrent
// decision, while writes go to the live store.
type staleAbsenceRepo struct {
	*fakeAbsenceRepo
	stale map[string]absence.Absence
}

func (r *staleAbsenceRepo) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	if a, ok := r.stale[id]; ok {
		return a, nil
	}
	return r.fakeAbsenceRepo.GetByID(ctx, id)
}
