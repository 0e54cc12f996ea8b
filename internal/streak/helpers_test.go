package streak

import (
	"errors"
	"time"
)

var errBroken = errors.New("broken")

// memStore is a typed in-memory Store. Keys listed in broken fail reads;
// failWrites makes every write fail.
type memStore struct {
	bytes      map[string][]byte
	ints       map[string]int
	times      map[string]time.Time
	broken     map[string]bool
	failWrites bool
	writes     int
}

func newMemStore() *memStore {
	return &memStore{
		bytes:  map[string][]byte{},
		ints:   map[string]int{},
		times:  map[string]time.Time{},
		broken: map[string]bool{},
	}
}

func (m *memStore) GetBytes(key string) ([]byte, error) {
	if m.broken[key] {
		return nil, errBroken
	}
	return m.bytes[key], nil
}

func (m *memStore) SetBytes(key string, value []byte) error {
	m.writes++
	if m.failWrites {
		return errBroken
	}
	m.bytes[key] = value
	return nil
}

func (m *memStore) GetInt(key string) (int, error) {
	if m.broken[key] {
		return 0, errBroken
	}
	return m.ints[key], nil
}

func (m *memStore) SetInt(key string, value int) error {
	m.writes++
	if m.failWrites {
		return errBroken
	}
	m.ints[key] = value
	return nil
}

func (m *memStore) GetTime(key string) (*time.Time, error) {
	if m.broken[key] {
		return nil, errBroken
	}
	v, ok := m.times[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *memStore) SetTime(key string, value *time.Time) error {
	m.writes++
	if m.failWrites {
		return errBroken
	}
	if value == nil {
		delete(m.times, key)
		return nil
	}
	m.times[key] = *value
	return nil
}
