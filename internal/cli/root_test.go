package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/database"
	"school-attendance-api/internal/kiosk"
	"school-attendance-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "kioskctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"preload", "sync", "checkin", "status", "queue", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
	require.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "--format", "yaml", "status")
	require.Error(t, err)
}

func TestKioskFlow(t *testing.T) {
	dir := t.TempDir()
	centralPath := filepath.Join(dir, "central.db")
	t.Setenv("MODE", "central")
	t.Setenv("DATABASE_PATH", centralPath)
	t.Setenv("LOCAL_STORE_PATH", filepath.Join(dir, "kiosk.db"))
	t.Setenv("TIMEZONE", "UTC")

	db, err := database.OpenCentral(centralPath)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Student{ID: "S1", Name: "Sara", ClassName: "5"}).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	out, err := run(t, "preload")
	require.NoError(t, err)
	assert.Contains(t, out, "preloaded 1 students")

	out, err = run(t, "checkin", "S1")
	require.NoError(t, err)
	assert.Contains(t, out, "Sara (S1)")

	out, err = run(t, "checkin", "S1")
	require.ErrorIs(t, err, kiosk.ErrAlreadyCheckedIn)
	assert.Contains(t, out, "already checked in")

	out, err = run(t, "--format", "json", "status")
	require.NoError(t, err)
	var st kiosk.StatusEvent
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 1, st.Pending)

	out, err = run(t, "--format", "yaml", "queue")
	require.NoError(t, err)
	assert.Contains(t, out, "studentid: S1")

	out, err = run(t, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "pending: 0")

	out, err = run(t, "queue", "--pending")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "0 events\n"), out)

	out, err = run(t, "queue")
	require.NoError(t, err)
	assert.Contains(t, out, "S1")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "token", "--username", "gate-1")
	require.NoError(t, err)

	tm := auth.NewTokenManager("cli-secret", "school-attendance-api", "school-attendance-clients", time.Hour)
	claims, err := tm.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "gate-1", claims.Username)
	assert.Equal(t, models.RoleKiosk, claims.Role)

	_, err = run(t, "token", "--role", "janitor")
	require.Error(t, err)
}
