package config

import (
	"log"
	"os"
	"time"

	"github.com/kopikeliling/marketplace/pkg/config"
	"github.com/kopikeliling/marketplace/pkg/db"
)

type ServiceConfig struct {
	config.Config

	MidtransServerKey      string
	MidtransClientKey      string
	MidtransProduction     bool
	MidtransBaseURL        string
	MidtransTimeoutSeconds int
	PaymentSimulation      bool

	SalesLocation *time.Location

	SeedOnStart       bool
	SeedStaffEmail    string
	SeedStaffPassword string
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverPostgres, db.DriverSQLite)

	sc := ServiceConfig{
		Config:                 cfg,
		MidtransServerKey:      os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:      os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransProduction:     config.EnvBoolDefault("MIDTRANS_PRODUCTION", false),
		MidtransBaseURL:        os.Getenv("MIDTRANS_BASE_URL"),
		MidtransTimeoutSeconds: config.EnvIntDefault("MIDTRANS_TIMEOUT_SECONDS", 10),
		SeedOnStart:            config.EnvBoolDefault("SEED_ON_START", false),
		SeedStaffEmail:         os.Getenv("SEED_STAFF_EMAIL"),
		SeedStaffPassword:      os.Getenv("SEED_STAFF_PASSWORD"),
	}
	config.MustNonEmpty(sc.MidtransServerKey, "MIDTRANS_SERVER_KEY")

	sc.PaymentSimulation = config.EnvBoolDefault("PAYMENT_SIMULATION", !sc.MidtransProduction)
	sc.SalesLocation = loadLocation(config.EnvDefault("SALES_TIMEZONE", "Asia/Jakarta"))

	return sc
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Notice: timezone %q unavailable (%v), using UTC+7", name, err)
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}
