package contract

import "context"

// Repository - interface for contracts table
type Repository interface {
	Create(ctx context.Context, contract Contract) (Contract, error)
	GetByID(ctx context.Context, id string) (Contract, error)
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]Contract, error)
	// ListActive returns every active contract.
	ListActive(ctx context.Context) ([]Contract, error)
	HasActiveContract(ctx context.Context, employeeID, employerID string) (bool, error)
}
