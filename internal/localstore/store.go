package localstore

import "errors"

var (
	// ErrNotFound is returned by Get when no record exists for the key.
	ErrNotFound = errors.New("localstore: record not found")

	// ErrQuotaExceeded is returned by Set when the write would exceed the configured quota.
	// The previous value of the key, if any, is left untouched.
	ErrQuotaExceeded = errors.New("localstore: quota exceeded")
)

// Store is durable key/value storage local to a single kiosk device.
// Keys are namespaced by prefix; values are opaque bytes (JSON in practice).
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys returns every stored key starting with prefix, in no particular order.
	Keys(prefix string) ([]string, error)
}
