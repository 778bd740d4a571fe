package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":           "postgres://localhost/rental_test",
		"REDIS_URL":              "redis://localhost:6379/0",
		"PORT":                   "",
		"DAMAGE_CHARGE_MINOR":    "",
		"DAMAGE_CHARGE_MAJOR":    "",
		"DAMAGE_CHARGE_LOST":     "",
		"RENTAL_CACHE_TTL":       "",
		"RATE_LIMIT_PER_MINUTE":  "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "50", cfg.DamageChargeMinor.String())
	require.Equal(t, "250", cfg.DamageChargeMajor.String())
	require.Equal(t, "500", cfg.DamageChargeLost.String())
	require.Equal(t, 5*time.Minute, cfg.RentalCacheTTL)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":        "postgres://localhost/rental_test",
		"REDIS_URL":           "redis://localhost:6379/0",
		"PORT":                "9090",
		"DAMAGE_CHARGE_MINOR": "75.50",
		"RENTAL_CACHE_TTL":    "30s",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "75.5", cfg.DamageChargeMinor.String())
	require.Equal(t, 30*time.Second, cfg.RentalCacheTTL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadRejectsNegativeTier(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL":        "postgres://localhost/rental_test",
		"REDIS_URL":           "redis://localhost:6379/0",
		"DAMAGE_CHARGE_MINOR": "-5",
	})
	require.Error(t, err)
}
