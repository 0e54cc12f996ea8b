package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/learnlit/internal/models"
)

// MemoryStore keeps everything in process memory. Nothing survives Close.
type MemoryStore struct {
	mu       sync.RWMutex
	loaded   bool
	values   map[string][]byte
	goals    map[string]models.Goal
	settings models.Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string][]byte)
	s.goals = make(map[string]models.Goal)
	s.settings = models.DefaultSettings()
	s.loaded = true
	return nil
}

// Load initializes an empty store on first use.
func (s *MemoryStore) Load() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Init()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if _, ok := s.values[key]; !ok {
		return ErrNotFound
	}
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return models.Settings{}, ErrNotLoaded
	}
	return s.settings, nil
}

func (s *MemoryStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	s.settings = settings
	return nil
}

func (s *MemoryStore) AddGoal(goal models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	for _, g := range s.goals {
		if g.ID == goal.ID || (g.Subject == goal.Subject && g.Period == goal.Period) {
			return ErrGoalExists
		}
	}
	s.goals[goal.ID] = goal
	return nil
}

func (s *MemoryStore) GetGoal(id string) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return models.Goal{}, ErrNotLoaded
	}
	g, ok := s.goals[id]
	if !ok {
		return models.Goal{}, ErrNotFound
	}
	return g, nil
}

func (s *MemoryStore) GetGoalBySubject(subject string, period models.Period) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return models.Goal{}, ErrNotLoaded
	}
	for _, g := range s.goals {
		if g.Subject == subject && g.Period == period {
			return g, nil
		}
	}
	return models.Goal{}, ErrNotFound
}

func (s *MemoryStore) GetAllGoals() ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	goals := make([]models.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	SortGoals(goals)
	return goals, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}

// SortGoals orders goals by creation time, then subject.
func SortGoals(goals []models.Goal) {
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].Subject < goals[j].Subject
	})
}
