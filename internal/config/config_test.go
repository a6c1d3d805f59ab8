package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ModeCentral, cfg.Mode)
	require.Equal(t, 5*time.Second, cfg.SyncInterval)
	require.Equal(t, 100, cfg.QueueRetain)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MODE", "KIOSK")
	t.Setenv("REMOTE_URL", "http://central:8008")
	t.Setenv("SYNC_INTERVAL", "2s")
	t.Setenv("QUEUE_RETAIN", "25")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ModeKiosk, cfg.Mode)
	require.Equal(t, "http://central:8008", cfg.RemoteURL)
	require.Equal(t, 2*time.Second, cfg.SyncInterval)
	require.Equal(t, 25, cfg.QueueRetain)
	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_USERNAME=principal\n"), 0o600))
	// godotenv does not override, so make sure the variable is unset
	t.Setenv("ADMIN_USERNAME", "")
	require.NoError(t, os.Unsetenv("ADMIN_USERNAME"))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "principal", cfg.AdminUsername)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Mode: ModeCentral, SyncInterval: time.Second}
	require.NoError(t, base.Validate())

	bad := base
	bad.Mode = "satellite"
	require.Error(t, bad.Validate())

	bad = base
	bad.Mode = ModeKiosk
	require.Error(t, bad.Validate())

	bad = base
	bad.SyncInterval = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.Timezone = "Mars/Olympus"
	require.Error(t, bad.Validate())
}
