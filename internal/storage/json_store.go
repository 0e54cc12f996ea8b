package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/learnlit/internal/models"
)

const jsonStoreVersion = 1

// document is the on-disk layout of a JSON store. Values hold goal state
// entries as text, which is all the tracker ever writes.
type document struct {
	Version  int                    `json:"version"`
	Settings models.Settings        `json:"settings"`
	Goals    map[string]models.Goal `json:"goals"`
	Values   map[string]string      `json:"values"`
}

// JSONStore persists everything to a single JSON file, rewritten on every
// change.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Init creates the file with default settings, or loads it when present.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = &document{
		Version:  jsonStoreVersion,
		Settings: models.DefaultSettings(),
		Goals:    make(map[string]models.Goal),
		Values:   make(map[string]string),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'learnlit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade learnlit", doc.Version, jsonStoreVersion)
	}
	if doc.Goals == nil {
		doc.Goals = make(map[string]models.Goal)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes through a temp file so a crash never leaves half a document.
// Callers hold the write lock.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	v, ok := s.doc.Values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *JSONStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Values[key] = string(value)
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if _, ok := s.doc.Values[key]; !ok {
		return ErrNotFound
	}
	delete(s.doc.Values, key)
	return s.save()
}

func (s *JSONStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	var keys []string
	for k := range s.doc.Values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return models.Settings{}, ErrNotLoaded
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) AddGoal(goal models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	for _, g := range s.doc.Goals {
		if g.ID == goal.ID || (g.Subject == goal.Subject && g.Period == goal.Period) {
			return ErrGoalExists
		}
	}
	s.doc.Goals[goal.ID] = goal
	return s.save()
}

func (s *JSONStore) GetGoal(id string) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return models.Goal{}, ErrNotLoaded
	}
	g, ok := s.doc.Goals[id]
	if !ok {
		return models.Goal{}, ErrNotFound
	}
	return g, nil
}

func (s *JSONStore) GetGoalBySubject(subject string, period models.Period) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return models.Goal{}, ErrNotLoaded
	}
	for _, g := range s.doc.Goals {
		if g.Subject == subject && g.Period == period {
			return g, nil
		}
	}
	return models.Goal{}, ErrNotFound
}

func (s *JSONStore) GetAllGoals() ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	goals := make([]models.Goal, 0, len(s.doc.Goals))
	for _, g := range s.doc.Goals {
		goals = append(goals, g)
	}
	SortGoals(goals)
	return goals, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
