package streak

import "time"

// Store is the typed key-value port the tracker persists through.
// Absent keys are not errors: GetBytes returns nil, GetInt returns 0 and
// GetTime returns nil. An error means the value exists but cannot be read.
type Store interface {
	GetBytes(key string) ([]byte, error)
	SetBytes(key string, value []byte) error
	GetInt(key string) (int, error)
	SetInt(key string, value int) error
	GetTime(key string) (*time.Time, error)
	// SetTime with a nil value clears the key.
	SetTime(key string, value *time.Time) error
}
