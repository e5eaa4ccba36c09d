package user

type Permission string

const (
	// Absences
	PermissionAbsenceCreate  Permission = "absence.create"
	PermissionAbsenceViewOwn Permission = "absence.view_own"
	PermissionAbsenceCancel  Permission = "absence.cancel"
	PermissionAbsenceDecide  Permission = "absence.decide"

	// Leave balances
	PermissionLeaveBalanceViewOwn Permission = "leave_balance.view_own"
	PermissionLeaveBalanceAdjust  Permission = "leave_balance.adjust"

	// Contracts
	PermissionContractManage Permission = "contract.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: {
		PermissionAbsenceCreate,
		PermissionAbsenceViewOwn,
		PermissionAbsenceCancel,
		PermissionLeaveBalanceViewOwn,
	},
	RoleEmployer: {
		PermissionAbsenceDecide,
		PermissionLeaveBalanceAdjust,
		PermissionContractManage,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
