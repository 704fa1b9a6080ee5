package entity_test

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/sicada/admin-service/internal/entity"
)

func TestCanAct(t *testing.T) {
	t.Parallel()

	admin := &entity.User{Role: entity.RoleAdmin, Portal: entity.PortalBusiness}
	employee := &entity.User{Role: entity.RoleEmployee, Portal: entity.PortalBusiness}
	officer := &entity.User{Role: entity.RolePoliceOfficer, Portal: entity.PortalPolice}

	require.True(t, entity.CanAct(admin, entity.PortalBusiness))
	require.True(t, entity.CanAct(admin, entity.PortalPolice))
	require.True(t, entity.CanAct(admin, entity.PortalWilaya))

	require.True(t, entity.CanAct(employee, entity.PortalBusiness))
	require.False(t, entity.CanAct(employee, entity.PortalPolice))
	require.False(t, entity.CanAct(employee, entity.PortalWilaya))

	require.True(t, entity.CanAct(officer, entity.PortalPolice))
	require.False(t, entity.CanAct(officer, entity.PortalBusiness))
}

func TestCanModifyOwned(t *testing.T) {
	t.Parallel()

	ownerID := uuid.Must(uuid.NewV4())
	admin := &entity.User{ID: uuid.Must(uuid.NewV4()), Role: entity.RoleAdmin, Portal: entity.PortalPolice}
	owner := &entity.User{ID: ownerID, Role: entity.RoleEmployee, Portal: entity.PortalBusiness}
	colleague := &entity.User{ID: uuid.Must(uuid.NewV4()), Role: entity.RoleEmployee, Portal: entity.PortalBusiness}

	require.True(t, entity.CanModifyOwned(admin, entity.PortalBusiness, ownerID.String()))
	require.True(t, entity.CanModifyOwned(owner, entity.PortalBusiness, ownerID.String()))
	require.False(t, entity.CanModifyOwned(colleague, entity.PortalBusiness, ownerID.String()))

	// right owner id, wrong portal
	require.False(t, entity.CanModifyOwned(owner, entity.PortalWilaya, ownerID.String()))
}

func TestCanAssign(t *testing.T) {
	t.Parallel()

	require.True(t, entity.CanAssign(&entity.User{Role: entity.RoleAdmin}))
	require.True(t, entity.CanAssign(&entity.User{Role: entity.RolePoliceOfficer}))
	require.False(t, entity.CanAssign(&entity.User{Role: entity.RoleEmployee}))
	require.False(t, entity.CanAssign(&entity.User{Role: entity.RoleCitizen}))
}

func TestRoleAllowedOnPortal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role    entity.Role
		portal  entity.Portal
		allowed bool
	}{
		{entity.RoleAdmin, entity.PortalBusiness, true},
		{entity.RoleAdmin, entity.PortalPolice, true},
		{entity.RoleAdmin, entity.PortalWilaya, true},
		{entity.RoleAdmin, entity.PortalCitizen, true},
		{entity.RoleEmployee, entity.PortalBusiness, true},
		{entity.RoleEmployee, entity.PortalWilaya, true},
		{entity.RoleEmployee, entity.PortalPolice, false},
		{entity.RoleEmployee, entity.PortalCitizen, false},
		{entity.RolePoliceOfficer, entity.PortalPolice, true},
		{entity.RolePoliceOfficer, entity.PortalBusiness, false},
		{entity.RoleCitizen, entity.PortalCitizen, true},
		{entity.RoleCitizen, entity.PortalBusiness, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, entity.RoleAllowedOnPortal(tc.role, tc.portal), "%s on %s", tc.role, tc.portal)
	}
}
