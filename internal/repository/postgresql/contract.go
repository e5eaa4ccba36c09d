package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type contractRepositoryImpl struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.Repository {
	return &contractRepositoryImpl{db: db}
}

const contractColumns = `
	id, employee_id, employer_id, employee_name, start_date,
	weekly_hours, status, created_at, updated_at`

func scanContract(row pgx.Row) (contract.Contract, error) {
	var c contract.Contract
	var status string
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.EmployerID, &c.EmployeeName, &c.StartDate,
		&c.WeeklyHours, &status, &c.CreatedAt, &c.UpdatedAt,
	)
	c.Status = contract.Status(status)
	return c, err
}

// Create implements contract.Repository.
func (r *contractRepositoryImpl) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = contract.StatusActive
	}

	query := `
		INSERT INTO contracts (id, employee_id, employer_id, employee_name, start_date, weekly_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contractColumns

	created, err := scanContract(q.QueryRow(ctx, query,
		c.ID, c.EmployeeID, c.EmployerID, c.EmployeeName, c.StartDate, c.WeeklyHours, string(c.Status),
	))
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to create contract: %w", err)
	}

	return created, nil
}

// GetByID implements contract.Repository.
func (r *contractRepositoryImpl) GetByID(ctx context.Context, id string) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`

	c, err := scanContract(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contract.Contract{}, contract.ErrContractNotFound
		}
		return contract.Contract{}, fmt.Errorf("failed to get contract: %w", err)
	}

	return c, nil
}

// ListActiveByEmployee implements contract.Repository.
func (r *contractRepositoryImpl) ListActiveByEmployee(ctx context.Context, employeeID string) ([]contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + contractColumns + `
		FROM contracts
		WHERE employee_id = $1 AND status = 'active'
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	return collectContracts(rows)
}

// ListActive implements contract.Repository.
func (r *contractRepositoryImpl) ListActive(ctx context.Context) ([]contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + contractColumns + `
		FROM contracts
		WHERE status = 'active'
		ORDER BY created_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active contracts: %w", err)
	}

	return collectContracts(rows)
}

func collectContracts(rows pgx.Rows) ([]contract.Contract, error) {
	defer rows.Close()

	contracts := make([]contract.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return contracts, nil
}

// HasActiveContract implements contract.Repository.
func (r *contractRepositoryImpl) HasActiveContract(ctx context.Context, employeeID, employerID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM contracts
			WHERE employee_id = $1 AND employer_id = $2 AND status = 'active'
		)`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, employerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contract: %w", err)
	}

	return exists, nil
}
