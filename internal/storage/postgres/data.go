package postgres

import (
	"database/sql"
	"errors"

	pq "github.com/lib/pq"

	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/storage"
)

const uniqueViolation = "23505"

func (s *Store) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(key string, value []byte) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}

func (s *Store) Delete(key string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	res, err := s.db.Exec("DELETE FROM kv WHERE key = $1", key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT key FROM kv WHERE left(key, length($1)) = $1 ORDER BY key", prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) GetSettings() (models.Settings, error) {
	if s.db == nil {
		return models.Settings{}, storage.ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, storage.ErrNotFound
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) AddGoal(goal models.Goal) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec(
		"INSERT INTO goals (id, subject, period, created_at) VALUES ($1, $2, $3, $4)",
		goal.ID, goal.Subject, string(goal.Period), goal.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return storage.ErrGoalExists
	}
	return err
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	if s.db == nil {
		return models.Goal{}, storage.ErrNotLoaded
	}
	return scanGoal(s.db.QueryRow("SELECT id, subject, period, created_at FROM goals WHERE id = $1", id))
}

func (s *Store) GetGoalBySubject(subject string, period models.Period) (models.Goal, error) {
	if s.db == nil {
		return models.Goal{}, storage.ErrNotLoaded
	}
	return scanGoal(s.db.QueryRow(
		"SELECT id, subject, period, created_at FROM goals WHERE subject = $1 AND period = $2",
		subject, string(period),
	))
}

func (s *Store) GetAllGoals() ([]models.Goal, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT id, subject, period, created_at FROM goals ORDER BY created_at, subject")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	var period string
	if err := row.Scan(&g.ID, &g.Subject, &period, &g.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Goal{}, storage.ErrNotFound
		}
		return models.Goal{}, err
	}
	g.Period = models.Period(period)
	return g, nil
}
