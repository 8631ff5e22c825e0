package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "uteq-schedule-hub", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "horarios.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"Lun", "Mar", "Mie", "Jue", "Vie"}, cfg.Schedule.Days)
	assert.Equal(t, []int{17, 18, 19, 20, 21}, cfg.Schedule.Hours)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND_BASE_URL", "https://horarios.uteq.edu.mx")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SCHEDULE_DAYS", "Lun, Mar ,Mie")
	t.Setenv("SCHEDULE_HOURS", "7,8,9")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.App.Environment)
	assert.False(t, cfg.App.Debug)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://horarios.uteq.edu.mx", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 6380, cfg.Storage.RedisPort)
	assert.Equal(t, []string{"Lun", "Mar", "Mie"}, cfg.Schedule.Days)
	assert.Equal(t, []int{7, 8, 9}, cfg.Schedule.Hours)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestValidate_ScheduleShape(t *testing.T) {
	t.Setenv("SCHEDULE_DAYS", "Lunes,Mar")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3-letter")
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6379, cfg.Storage.RedisPort)
	assert.Equal(t, 30*time.Second, cfg.Backend.RequestTimeout)
}
