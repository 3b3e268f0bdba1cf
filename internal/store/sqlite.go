package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/planner/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a task does not exist
var ErrNotFound = errors.New("not found")

// Store handles database operations
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock replaces the time source used for created_at and generated_at stamps
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// NewTask holds the fields a caller supplies when adding a task
type NewTask struct {
	Title      string
	Category   domain.Category
	HoursSpent float64
	Deadline   time.Time
}

// AddTask creates a new task and returns it
func (s *Store) AddTask(t NewTask) (*domain.TaskRecord, error) {
	id := uuid.New().String()
	now := s.now().UTC()
	// stored in UTC so text ordering matches time ordering
	deadline := t.Deadline.UTC()

	_, err := s.db.Exec(
		"INSERT INTO tasks (id, title, category, hours_spent, deadline, completed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, t.Title, string(t.Category), t.HoursSpent, deadline, false, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return &domain.TaskRecord{
		ID:         id,
		Title:      t.Title,
		Category:   t.Category,
		HoursSpent: t.HoursSpent,
		Deadline:   deadline,
		CreatedAt:  now,
	}, nil
}

// GetTask retrieves a task by ID
func (s *Store) GetTask(id string) (*domain.TaskRecord, error) {
	row := s.db.QueryRow(
		"SELECT id, title, category, hours_spent, deadline, completed, created_at FROM tasks WHERE id = ?",
		id,
	)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// FindTask resolves a full ID or unique ID prefix to a task
func (s *Store) FindTask(prefix string) (*domain.TaskRecord, error) {
	// substr comparison keeps % and _ literal
	rows, err := s.db.Query("SELECT id FROM tasks WHERE substr(id, 1, length(?)) = ? LIMIT 2", prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("task %s: %w", prefix, ErrNotFound)
	case 1:
		return s.GetTask(ids[0])
	default:
		return nil, fmt.Errorf("task prefix %s is ambiguous", prefix)
	}
}

// ListTasks returns all tasks ordered by deadline, earliest first
func (s *Store) ListTasks() ([]domain.TaskRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, title, category, hours_spent, deadline, completed, created_at FROM tasks ORDER BY deadline ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.TaskRecord
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// CompleteTask marks a task as completed and returns it
func (s *Store) CompleteTask(id string) (*domain.TaskRecord, error) {
	res, err := s.db.Exec("UPDATE tasks SET completed = ? WHERE id = ?", true, id)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("complete task %s: %w", id, ErrNotFound)
	}

	return s.GetTask(id)
}

// SaveSnapshot records the outcome of a dashboard run
func (s *Store) SaveSnapshot(score float64, level domain.RiskLevel) (*domain.PerformanceSnapshot, error) {
	id := uuid.New().String()
	now := s.now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO performances (id, predicted_score, burnout_level, generated_at) VALUES (?, ?, ?, ?)",
		id, score, string(level), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	return &domain.PerformanceSnapshot{
		ID:             id,
		PredictedScore: score,
		BurnoutLevel:   level,
		GeneratedAt:    now,
	}, nil
}

// ListSnapshots returns recent snapshots, newest first
func (s *Store) ListSnapshots(limit int) ([]domain.PerformanceSnapshot, error) {
	rows, err := s.db.Query(
		"SELECT id, predicted_score, burnout_level, generated_at FROM performances ORDER BY generated_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.PerformanceSnapshot
	for rows.Next() {
		var p domain.PerformanceSnapshot
		var level string
		if err := rows.Scan(&p.ID, &p.PredictedScore, &level, &p.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		p.BurnoutLevel = domain.RiskLevel(level)
		snapshots = append(snapshots, p)
	}

	return snapshots, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (domain.TaskRecord, error) {
	var t domain.TaskRecord
	var category string
	err := sc.Scan(&t.ID, &t.Title, &category, &t.HoursSpent, &t.Deadline, &t.Completed, &t.CreatedAt)
	t.Category = domain.Category(category)
	return t, err
}
