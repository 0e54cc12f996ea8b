package storage

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Values exposes a Provider through the typed port the streak tracker uses.
// Integers are stored as decimal text and timestamps as RFC 3339.
type Values struct {
	p Provider
}

func NewValues(p Provider) *Values {
	return &Values{p: p}
}

func (v *Values) GetBytes(key string) ([]byte, error) {
	b, err := v.p.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (v *Values) SetBytes(key string, value []byte) error {
	return v.p.Set(key, value)
}

func (v *Values) GetInt(key string) (int, error) {
	b, err := v.GetBytes(key)
	if err != nil || b == nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func (v *Values) SetInt(key string, value int) error {
	return v.p.Set(key, []byte(strconv.Itoa(value)))
}

func (v *Values) GetTime(key string) (*time.Time, error) {
	b, err := v.GetBytes(key)
	if err != nil || b == nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// SetTime removes the key when value is nil.
func (v *Values) SetTime(key string, value *time.Time) error {
	if value == nil {
		if err := v.p.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	}
	return v.p.Set(key, []byte(value.Format(time.RFC3339Nano)))
}
