package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("rahasia123")
	require.NoError(t, err)
	require.NotEqual(t, "rahasia123", h)

	require.True(t, CheckPassword(h, "rahasia123"))
	require.False(t, CheckPassword(h, "salah"))
	require.False(t, CheckPassword("not-a-hash", "rahasia123"))
}
