package user

import "errors"

var (
	ErrInvalidRole             = errors.New("invalid role")
	ErrEmployeeAccessRequired  = errors.New("employee access required")
	ErrEmployerAccessRequired  = errors.New("employer access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrMissingIdentity         = errors.New("missing caller identity")
)
