package contract

import "context"

type Service interface {
	CreateContract(ctx context.Context, req CreateContractRequest) (ContractResponse, error)
	GetContract(ctx context.Context, contractID, callerID string) (ContractResponse, error)
}
