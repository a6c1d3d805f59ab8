package localstore

import (
	"path/filepath"
	"sort"
	"testing"

	"school-attendance-api/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newGormStore(t *testing.T, quota int64) *GormStore {
	t.Helper()
	db, err := database.Open(":memory:", logger.Silent)
	require.NoError(t, err)
	s, err := NewGormStore(db, quota)
	require.NoError(t, err)
	return s
}

func stores(t *testing.T, quota int64) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(quota),
		"gorm":   newGormStore(t, quota),
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	for name, s := range stores(t, 0) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("kiosk:queue", []byte(`[]`)))
			require.NoError(t, s.Set("kiosk:queue", []byte(`[1]`)))
			v, err := s.Get("kiosk:queue")
			require.NoError(t, err)
			require.Equal(t, `[1]`, string(v))

			require.NoError(t, s.Delete("kiosk:queue"))
			_, err = s.Get("kiosk:queue")
			require.ErrorIs(t, err, ErrNotFound)
			require.NoError(t, s.Delete("kiosk:queue"))
		})
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	for name, s := range stores(t, 0) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("app:students", []byte("a")))
			require.NoError(t, s.Set("app:classes", []byte("b")))
			require.NoError(t, s.Set("static:settings", []byte("c")))

			keys, err := s.Keys("app:")
			require.NoError(t, err)
			sort.Strings(keys)
			require.Equal(t, []string{"app:classes", "app:students"}, keys)
		})
	}
}

func TestStore_Quota(t *testing.T) {
	for name, s := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("a", []byte("12345")))
			require.NoError(t, s.Set("b", []byte("12345")))
			require.ErrorIs(t, s.Set("c", []byte("1")), ErrQuotaExceeded)

			// replacing a value only counts the difference
			require.NoError(t, s.Set("a", []byte("123")))
			require.NoError(t, s.Set("c", []byte("12")))

			require.ErrorIs(t, s.Set("b", []byte("123456")), ErrQuotaExceeded)
			v, err := s.Get("b")
			require.NoError(t, err)
			require.Equal(t, "12345", string(v))
		})
	}
}

func TestOpenFile_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.db")
	s, err := OpenFile(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Set("kiosk:queue", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := OpenFile(path, 0)
	require.NoError(t, err)
	v, err := reopened.Get("kiosk:queue")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), v)
}
