package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-xyz")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	require.False(t, cfg.MidtransProduction)
	require.True(t, cfg.PaymentSimulation)
	require.Equal(t, 10, cfg.MidtransTimeoutSeconds)
	require.NotNil(t, cfg.SalesLocation)
	require.Equal(t, []byte("s3cret"), cfg.JWTSecret)
}

func TestLoadProductionDisablesSimulationByDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("MIDTRANS_PRODUCTION", "true")

	cfg := Load()
	require.True(t, cfg.MidtransProduction)
	require.False(t, cfg.PaymentSimulation)

	t.Setenv("PAYMENT_SIMULATION", "true")
	require.True(t, Load().PaymentSimulation)
}

func TestLoadLocationFallback(t *testing.T) {
	loc := loadLocation("Not/AZone")
	require.Equal(t, "WIB", loc.String())
}
