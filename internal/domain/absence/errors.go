package absence

import "errors"

var (
	ErrAbsenceNotFound         = errors.New("absence not found")
	ErrAbsenceOverlap          = errors.New("absence already declared for this period")
	ErrInvalidStatusTransition = errors.New("invalid absence status transition")
	ErrAbsenceAlreadyDecided   = errors.New("absence already decided")
	ErrNotAbsenceOwner         = errors.New("absence belongs to another employee")
	ErrNotAbsenceEmployer      = errors.New("absence does not concern one of your contracts")
	ErrContractRequired        = errors.New("contract_id is required for vacation when the employee has several active contracts")
)
