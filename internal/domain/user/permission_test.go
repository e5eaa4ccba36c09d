package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleEmployee, PermissionAbsenceCreate))
	assert.True(t, HasPermission(RoleEmployer, PermissionAbsenceDecide))
	assert.False(t, HasPermission(RoleEmployee, PermissionAbsenceDecide))
	assert.False(t, HasPermission(RoleEmployer, PermissionAbsenceCreate))
	assert.False(t, HasPermission(Role("admin"), PermissionAbsenceCreate))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleEmployee.Valid())
	assert.True(t, RoleEmployer.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}
