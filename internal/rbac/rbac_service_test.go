package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewDefaultService()
	require.NoError(t, err)
	return svc
}

func TestRBACService_Predicates(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		role                                       string
		decide, viewAllReq, manageProj, viewAllAtt bool
	}{
		{RoleAdmin, true, true, true, true},
		{RoleHR, true, true, false, true},
		{RoleManager, false, false, true, true},
		{RoleEmployee, false, false, false, false},
		{"", false, false, false, false},
		{"owner", false, false, false, false},
	}

	for _, tc := range cases {
		t.Run("role="+tc.role, func(t *testing.T) {
			assert.Equal(t, tc.decide, svc.CanDecide(tc.role))
			assert.Equal(t, tc.viewAllReq, svc.CanViewAllRequests(tc.role))
			assert.Equal(t, tc.manageProj, svc.CanManageProjects(tc.role))
			assert.Equal(t, tc.viewAllAtt, svc.CanViewAllAttendance(tc.role))
		})
	}
}

func TestRBACService_RoleInheritance(t *testing.T) {
	svc := newTestService(t)

	// admin inherits hr and manager, which inherit employee
	assert.True(t, svc.Allowed(RoleAdmin, "leave", "submit"))
	assert.True(t, svc.Allowed(RoleManager, "attendance", "self"))
	assert.False(t, svc.Allowed(RoleHR, "employee", "create"))
}

func TestRBACService_Permissions(t *testing.T) {
	svc := newTestService(t)

	perms := svc.Permissions(RoleHR)

	assert.Contains(t, perms, "leave:decide")
	assert.Contains(t, perms, "leave:submit")
	assert.NotContains(t, perms, "project:manage")
	assert.Empty(t, svc.Permissions("nobody"))
}

func TestParsePolicy_Rejects(t *testing.T) {
	_, err := ParsePolicy([]byte("roles: {}"))
	assert.Error(t, err)

	_, err = ParsePolicy([]byte(`
roles:
  employee:
    inherits: [ghost]
`))
	assert.ErrorContains(t, err, "unknown role")

	_, err = ParsePolicy([]byte(`
roles:
  employee:
    permissions: [leave]
`))
	assert.ErrorContains(t, err, "malformed permission")
}

func TestNewService_CustomPolicy(t *testing.T) {
	policy, err := ParsePolicy([]byte(`
roles:
  employee:
    permissions: [leave:submit]
  hr:
    inherits: [employee]
    permissions: [leave:decide]
`))
	require.NoError(t, err)

	svc, err := NewService(policy)
	require.NoError(t, err)

	assert.True(t, svc.CanDecide(RoleHR))
	// admin is a known role but has no grants in this policy
	assert.False(t, svc.CanDecide(RoleAdmin))
}

func TestRBACService_Payslips(t *testing.T) {
	svc := newTestService(t)

	assert.True(t, svc.Allowed(RoleEmployee, "payslip", "self"))
	assert.False(t, svc.Allowed(RoleManager, "payslip", "read_all"))
	assert.True(t, svc.Allowed(RoleHR, "payslip", "read_all"))
	assert.True(t, svc.Allowed(RoleAdmin, "payslip", "read_all"))
}
