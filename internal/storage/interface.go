package storage

import (
	"errors"

	"github.com/julianstephens/learnlit/internal/models"
)

var (
	// ErrNotFound is returned for a missing key, goal or settings row.
	ErrNotFound = errors.New("not found")
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrGoalExists is returned by AddGoal for a duplicate subject and period.
	ErrGoalExists = errors.New("goal already exists")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Goal state entries, keyed learn-{subject}-{period}-{field}
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	GetGoalBySubject(subject string, period models.Period) (models.Goal, error)
	GetAllGoals() ([]models.Goal, error)

	// Utils
	GetConfigPath() string
}
