package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/storage"
)

func (s *Store) AddGoal(goal models.Goal) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec(
		"INSERT INTO goals (id, subject, period, created_at) VALUES (?, ?, ?, ?)",
		goal.ID, goal.Subject, string(goal.Period), goal.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return storage.ErrGoalExists
	}
	return err
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	if s.db == nil {
		return models.Goal{}, storage.ErrNotLoaded
	}
	row := s.db.QueryRow("SELECT id, subject, period, created_at FROM goals WHERE id = ?", id)
	return scanGoal(row)
}

func (s *Store) GetGoalBySubject(subject string, period models.Period) (models.Goal, error) {
	if s.db == nil {
		return models.Goal{}, storage.ErrNotLoaded
	}
	row := s.db.QueryRow(
		"SELECT id, subject, period, created_at FROM goals WHERE subject = ? AND period = ?",
		subject, string(period),
	)
	return scanGoal(row)
}

func (s *Store) GetAllGoals() ([]models.Goal, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT id, subject, period, created_at FROM goals")
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	storage.SortGoals(goals)
	return goals, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	var period, created string
	if err := row.Scan(&g.ID, &g.Subject, &period, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Goal{}, storage.ErrNotFound
		}
		return models.Goal{}, err
	}

	g.Period = models.Period(period)
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return models.Goal{}, fmt.Errorf("parsing created_at of goal %s: %w", g.ID, err)
	}
	g.CreatedAt = t
	return g, nil
}
