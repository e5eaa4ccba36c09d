package contract

import "errors"

var (
	ErrContractNotFound  = errors.New("contract not found")
	ErrContractForbidden = errors.New("contract belongs to another user")
)
