package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	require.True(t, CanTransition(StatusPending, StatusPaid))
	require.True(t, CanTransition(StatusPending, StatusCancelled))
	require.True(t, CanTransition(StatusPending, StatusExpired))
	require.True(t, CanTransition(StatusPaid, StatusCompleted))

	require.False(t, CanTransition(StatusPaid, StatusPending))
	require.False(t, CanTransition(StatusCompleted, StatusPaid))
	require.False(t, CanTransition(StatusCancelled, StatusPaid))
	require.False(t, CanTransition(StatusExpired, StatusPaid))

	for _, s := range []TransactionStatus{StatusCompleted, StatusCancelled, StatusExpired} {
		require.True(t, s.Terminal(), s)
	}
	require.False(t, StatusPending.Terminal())
	require.False(t, TransactionStatus("refunded").Valid())
}

func TestRoleCapabilities(t *testing.T) {
	require.True(t, RoleStaff.Allows(CapSell))
	require.False(t, RoleStaff.Allows(CapShop))
	require.True(t, RoleCustomer.Allows(CapShop))
	require.False(t, RoleCustomer.Allows(CapSell))
	require.True(t, RoleAdmin.Allows(CapSell))
	require.False(t, RoleUnknown.Allows(CapShop))
}

func TestRoleTextAndScan(t *testing.T) {
	r, err := ParseRole("Staff")
	require.NoError(t, err)
	require.Equal(t, RoleStaff, r)

	_, err = ParseRole("staff")
	require.Error(t, err)

	b, err := json.Marshal(struct{ R Role }{RoleCustomer})
	require.NoError(t, err)
	require.JSONEq(t, `{"R":"Customer"}`, string(b))

	var scanned Role
	require.NoError(t, scanned.Scan([]byte("Admin")))
	require.Equal(t, RoleAdmin, scanned)

	_, err = RoleUnknown.Value()
	require.Error(t, err)
}
