package leave

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]leave.LeaveBalance
	seq      int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
}

func (f *fakeBalanceRepo) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := balanceKey(b.ContractID, b.LeaveYear)
	if _, ok := f.balances[key]; ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceExists
	}
	f.seq++
	b.ID = fmt.Sprintf("balance-%d", f.seq)
	f.balances[key] = b
	return b, nil
}

func (f *fakeBalanceRepo) GetByContractAndYear(ctx context.Context, contractID, leaveYear string) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.balances[balanceKey(contractID, leaveYear)]
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

	key := balanceKey(contractID, leaveYear)
	b, ok := f.balances[key]
	if !ok {
		return leave.ErrLeaveBalanceNotFound
	}
	b.TakenDays = b.TakenDays.Add(days)
	f.balances[key] = b
	return nil
}

func (f *fakeBalanceRepo) DecrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := balanceKey(contractID, leaveYear)
	b, ok := f.balances[key]
	if !ok {
		return decimal.Zero, leave.ErrLeaveBalanceNotFound
	}
	previous := b.TakenDays
	b.TakenDays = decimal.Max(b.TakenDays.Sub(days), decimal.Zero)
	f.balances[key] = b
	return previous, nil
}

func (f *fakeBalanceRepo) AddAdjustment(ctx context.Context, contractID, leaveYear string, delta decimal.Decimal) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := balanceKey(contractID, leaveYear)
	b, ok := f.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	b.AdjustmentDays = b.AdjustmentDays.Add(delta)
	f.balances[key] = b
	return b, nil
}

func (f *fakeBalanceRepo) RaiseAcquired(ctx context.Context, contractID, leaveYear string, acquired decimal.Decimal) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := balanceKey(contractID, leaveYear)
	b, ok := f.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	b.AcquiredDays = decimal.Max(b.AcquiredDays, acquired)
	f.balances[key] = b
	return b, nil
}
