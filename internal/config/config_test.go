package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
botToken: "123456:test-token"
spreadsheetID: "sheet-id-1"
adminID: 111222333
officeLat: 37.909411
officeLon: 23.871109
officeRadiusM: 300
timezone: "Europe/Athens"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.BotToken)
	assert.Equal(t, "sheet-id-1", cfg.SpreadsheetID)
	assert.Equal(t, int64(111222333), cfg.AdminID)
	assert.Equal(t, 37.909411, cfg.OfficeLat)
	assert.Equal(t, 300.0, cfg.OfficeRadiusM)
}

func TestLoadFromPath_Defaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GraceMinutes)
	assert.Equal(t, 30, cfg.PendingTTLMinutes)
	assert.Equal(t, 15, cfg.SheetsTimeoutSeconds)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.GracePeriod())
	assert.Equal(t, 30*time.Minute, cfg.PendingTTL())
	assert.Equal(t, 15*time.Second, cfg.SheetsTimeout())
}

func TestLoadFromPath_MissingGeofence(t *testing.T) {
	noGeofence := `
botToken: "t"
spreadsheetID: "s"
adminID: 1
timezone: "Europe/Athens"
`

	_, err := LoadFromPath(writeConfig(t, noGeofence))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_MissingAdmin(t *testing.T) {
	noAdmin := `
botToken: "t"
spreadsheetID: "s"
officeLat: 37.9
officeLon: 23.8
officeRadiusM: 300
timezone: "Europe/Athens"
`

	_, err := LoadFromPath(writeConfig(t, noAdmin))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidTimezone(t *testing.T) {
	badTimezone := `
botToken: "t"
spreadsheetID: "s"
adminID: 1
officeLat: 37.9
officeLon: 23.8
officeRadiusM: 300
timezone: "Mars/Olympus"
`

	_, err := LoadFromPath(writeConfig(t, badTimezone))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	invalidYAML := `
botToken: "t"
  invalid indentation
spreadsheetID: "s"
`

	_, err := LoadFromPath(writeConfig(t, invalidYAML))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("OFFICE_RADIUS_M", "150.5")
	t.Setenv("ADMIN_ID", "999")
	t.Setenv("PORT", "9090")

	cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.BotToken)
	assert.Equal(t, 150.5, cfg.OfficeRadiusM)
	assert.Equal(t, int64(999), cfg.AdminID)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadFromPath_InvalidEnvOverride(t *testing.T) {
	t.Setenv("OFFICE_LAT", "not-a-number")

	_, err := LoadFromPath(writeConfig(t, validConfigYAML))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OFFICE_LAT")
}

func TestLocation(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Athens", loc.String())
}
