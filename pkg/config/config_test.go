package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("MP_TEST_INT", "not-a-number")
	t.Setenv("MP_TEST_BOOL", "true")
	t.Setenv("MP_TEST_STR", "")

	assert.Equal(t, 7, EnvIntDefault("MP_TEST_INT", 7))
	assert.True(t, EnvBoolDefault("MP_TEST_BOOL", false))
	assert.False(t, EnvBoolDefault("MP_TEST_MISSING_BOOL", false))
	assert.Equal(t, "fallback", EnvDefault("MP_TEST_STR", "fallback"))
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/kopi")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("SERVER_PORT", "9090")

	cfg := Load()
	assert.Equal(t, "postgres://u:p@localhost:5432/kopi", cfg.DatabaseURL)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "products", cfg.ESIndex)
}
