package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "DATA_PATH", "PORT", "STANDARD_MONTHLY_HOURS", "AUTO_NIGHT_REST", "LOG_LEVEL", "SHIFT_CODES_FILE"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "roster.db", cfg.Database.DataPath)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 209.0, cfg.Roster.StandardMonthlyHours)
	assert.True(t, cfg.Roster.AutoNightRest)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STANDARD_MONTHLY_HOURS", "174")
	t.Setenv("AUTO_NIGHT_REST", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 174.0, cfg.Roster.StandardMonthlyHours)
	assert.False(t, cfg.Roster.AutoNightRest)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("STANDARD_MONTHLY_HOURS", "-3")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("STANDARD_MONTHLY_HOURS", "209")
	t.Setenv("AUTO_NIGHT_REST", "maybe")
	_, err = FromEnv()
	assert.Error(t, err)
}
