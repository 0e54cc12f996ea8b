// Package redis stores learnlit data in a Redis database. Goal state entries
// are plain strings indexed by a sorted set so prefix listing stays exact.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/learnlit/internal/constants"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/storage"
)

const opTimeout = 3 * time.Second

// IsURL reports whether target is a Redis URL.
func IsURL(target string) bool {
	return strings.HasPrefix(target, "redis://") || strings.HasPrefix(target, "rediss://")
}

type Store struct {
	url       string
	namespace string
	client    *goredis.Client
}

type Option func(*Store)

// WithNamespace changes the key prefix, "learnlit" by default.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

func New(url string, opts ...Option) *Store {
	s := &Store{url: url, namespace: constants.AppName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(parts ...string) string {
	return s.namespace + ":" + strings.Join(parts, ":")
}

func (s *Store) valueKey(k string) string { return s.key("kv", k) }
func (s *Store) indexKey() string         { return s.key("kv-index") }
func (s *Store) settingsKey() string      { return s.key("settings") }
func (s *Store) goalsKey() string         { return s.key("goals") }
func (s *Store) goalIndexKey() string     { return s.key("goal-index") }

func goalIndexField(subject string, period models.Period) string {
	return string(period) + "\x00" + subject
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}

	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid Redis URL: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := goredis.NewClient(opts)
	ctx, cancel := s.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.client = client
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}

	settings, err := s.GetSettings()
	if errors.Is(err, storage.ErrNotFound) {
		settings = models.DefaultSettings()
	} else if err != nil {
		return err
	}
	return s.SaveSettings(settings)
}

func (s *Store) Load() error {
	if err := s.connect(); err != nil {
		return err
	}

	ctx, cancel := s.ctx()
	defer cancel()
	n, err := s.client.Exists(ctx, s.settingsKey()).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("storage not initialized, run 'learnlit init' first")
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// GetConfigPath returns a label rather than the URL, which may hold a password.
func (s *Store) GetConfigPath() string {
	return "redis"
}

// Ping checks the connection.
func (s *Store) Ping() error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	v, err := s.client.Get(ctx, s.valueKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	return v, err
}

func (s *Store) Set(key string, value []byte) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.valueKey(key), value, 0)
		p.ZAdd(ctx, s.indexKey(), goredis.Z{Score: 0, Member: key})
		return nil
	})
	return err
}

func (s *Store) Delete(key string) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	var del *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		del = p.Del(ctx, s.valueKey(key))
		p.ZRem(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	keys, err := s.client.ZRangeByLex(ctx, s.indexKey(), &goredis.ZRangeBy{
		Min: "[" + prefix,
		Max: "[" + prefix + "\xff",
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return keys, nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	if s.client == nil {
		return models.Settings{}, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := s.client.HGetAll(ctx, s.settingsKey()).Result()
	if err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, storage.ErrNotFound
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	var fields []interface{}
	for k, v := range models.SettingsToMap(settings) {
		fields = append(fields, k, v)
	}
	return s.client.HSet(ctx, s.settingsKey(), fields...).Err()
}

func (s *Store) AddGoal(goal models.Goal) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("failed to encode goal: %w", err)
	}

	exists, err := s.client.HExists(ctx, s.goalsKey(), goal.ID).Result()
	if err != nil {
		return err
	}
	if exists {
		return storage.ErrGoalExists
	}

	claimed, err := s.client.HSetNX(ctx, s.goalIndexKey(), goalIndexField(goal.Subject, goal.Period), goal.ID).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return storage.ErrGoalExists
	}
	return s.client.HSet(ctx, s.goalsKey(), goal.ID, data).Err()
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	if s.client == nil {
		return models.Goal{}, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := s.client.HGet(ctx, s.goalsKey(), id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return models.Goal{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Goal{}, err
	}
	return decodeGoal(data)
}

func (s *Store) GetGoalBySubject(subject string, period models.Period) (models.Goal, error) {
	if s.client == nil {
		return models.Goal{}, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	id, err := s.client.HGet(ctx, s.goalIndexKey(), goalIndexField(subject, period)).Result()
	cancel()
	if errors.Is(err, goredis.Nil) {
		return models.Goal{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Goal{}, err
	}
	return s.GetGoal(id)
}

func (s *Store) GetAllGoals() ([]models.Goal, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()

	raw, err := s.client.HVals(ctx, s.goalsKey()).Result()
	if err != nil {
		return nil, err
	}

	goals := make([]models.Goal, 0, len(raw))
	for _, r := range raw {
		g, err := decodeGoal([]byte(r))
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	storage.SortGoals(goals)
	return goals, nil
}

func decodeGoal(data []byte) (models.Goal, error) {
	var g models.Goal
	if err := json.Unmarshal(data, &g); err != nil {
		return models.Goal{}, fmt.Errorf("failed to decode goal: %w", err)
	}
	return g, nil
}
