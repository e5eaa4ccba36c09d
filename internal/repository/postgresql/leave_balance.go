package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `
	id, contract_id, employee_id, employer_id, leave_year,
	acquired_days, taken_days, adjustment_days, created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.ContractID, &b.EmployeeID, &b.EmployerID, &b.LeaveYear,
		&b.AcquiredDays, &b.TakenDays, &b.AdjustmentDays, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	if balance.ID == "" {
		balance.ID = uuid.New().String()
	}

	query := `
		INSERT INTO leave_balances (
			id, contract_id, employee_id, employer_id, leave_year,
			acquired_days, taken_days, adjustment_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (contract_id, leave_year) DO NOTHING
		RETURNING ` + leaveBalanceColumns

	created, err := scanLeaveBalance(q.QueryRow(ctx, query,
		balance.ID, balance.ContractID, balance.EmployeeID, balance.EmployerID, balance.LeaveYear,
		balance.AcquiredDays, balance.TakenDays, balance.AdjustmentDays,
	))
	if err != nil {
		// DO NOTHING returns no row on a conflict
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceExists
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return created, nil
}

// GetByContractAndYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByContractAndYear(ctx context.Context, contractID, leaveYear string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE contract_id = $1 AND leave_year = $2`

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, contractID, leaveYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return balance, nil
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_year DESC, contract_id`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		balance, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, balance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return balances, nil
}

// IncrementTaken implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) IncrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET taken_days = taken_days + $3, updated_at = NOW()
		WHERE contract_id = $1 AND leave_year = $2`

	tag, err := q.Exec(ctx, query, contractID, leaveYear, days)
	if err != nil {
		return fmt.Errorf("failed to increment taken days: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveBalanceNotFound
	}

	return nil
}

// DecrementTaken implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) DecrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH prev AS (
			SELECT id, taken_days
			FROM leave_balances
			WHERE contract_id = $1 AND leave_year = $2
			FOR UPDATE
		)
		UPDATE leave_balances lb
		SET taken_days = GREATEST(lb.taken_days - $3, 0), updated_at = NOW()
		FROM prev
		WHERE lb.id = prev.id
		RETURNING prev.taken_days`

	var previous decimal.Decimal
	if err := q.QueryRow(ctx, query, contractID, leaveYear, days).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, leave.ErrLeaveBalanceNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to decrement taken days: %w", err)
	}

	return previous, nil
}

// AddAdjustment implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) AddAdjustment(ctx context.Context, contractID, leaveYear string, delta decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET adjustment_days = adjustment_days + $3, updated_at = NOW()
		WHERE contract_id = $1 AND leave_year = $2
		RETURNING ` + leaveBalanceColumns

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, contractID, leaveYear, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	return balance, nil
}

// RaiseAcquired implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) RaiseAcquired(ctx context.Context, contractID, leaveYear string, acquired decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET acquired_days = GREATEST(acquired_days, $3), updated_at = NOW()
		WHERE contract_id = $1 AND leave_year = $2
		RETURNING ` + leaveBalanceColumns

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, contractID, leaveYear, acquired))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to raise acquired days: %w", err)
	}

	return balance, nil
}
