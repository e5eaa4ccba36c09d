package leave

import "errors"

var (
	ErrLeaveBalanceNotFound = errors.New("leave balance not found")
	ErrLeaveBalanceExists   = errors.New("leave balance already exists for this contract and leave year")
	ErrInvalidDays          = errors.New("days must be greater than zero")
	ErrInvalidLeaveYear     = errors.New("invalid leave year")
	ErrNotBalanceEmployer   = errors.New("only the contract employer can adjust this balance")
)
