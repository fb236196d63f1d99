package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/dialclock/internal/dial"
)

var (
	ErrNotFound = errors.New("interval not found")
	ErrOverlap  = errors.New("interval overlaps an existing one")
)

const intervalColumns = `id, title, start_minute, duration, color, completed, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanInterval(row scanner) (Interval, error) {
	var iv Interval
	var completed int
	var createdAt, updatedAt string
	if err := row.Scan(&iv.ID, &iv.Title, &iv.Start, &iv.Duration, &iv.Color, &completed, &createdAt, &updatedAt); err != nil {
		return Interval{}, err
	}
	iv.Completed = completed == 1
	iv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	iv.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return iv, nil
}

// AddInterval stores a new interval. It fails with ErrOverlap if the day
// could no longer be laid out on the dial.
func (s *Store) AddInterval(title string, start, duration int, color string) (*Interval, error) {
	iv := Interval{Title: title, Start: start, Duration: duration, Color: color}
	if err := s.checkFits(iv); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO intervals (title, start_minute, duration, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		title, start, duration, color, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert interval: %w", err)
	}
	id, _ := res.LastInsertId()
	s.notify()
	return s.GetInterval(id)
}

func (s *Store) GetInterval(id int64) (*Interval, error) {
	iv, err := scanInterval(s.db.QueryRow(
		`SELECT `+intervalColumns+` FROM intervals WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get interval %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}
	return &iv, nil
}

// ListIntervals returns intervals sorted by start minute.
func (s *Store) ListIntervals(f IntervalFilter) ([]Interval, error) {
	query := `SELECT ` + intervalColumns + ` FROM intervals WHERE 1=1`
	switch f.Status {
	case StatusActive:
		query += ` AND completed = 0`
	case StatusCompleted:
		query += ` AND completed = 1`
	}
	query += ` ORDER BY start_minute, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var intervals []Interval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// UpdateInterval rewrites title, placement and color of an interval.
func (s *Store) UpdateInterval(iv Interval) error {
	if _, err := s.GetInterval(iv.ID); err != nil {
		return err
	}
	if err := s.checkFits(iv); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE intervals SET title = ?, start_minute = ?, duration = ?, color = ?, updated_at = ? WHERE id = ?`,
		iv.Title, iv.Start, iv.Duration, iv.Color, now, iv.ID,
	)
	if err != nil {
		return fmt.Errorf("update interval %d: %w", iv.ID, err)
	}
	s.notify()
	return nil
}

func (s *Store) SetCompleted(id int64, completed bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE intervals SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed), now, id,
	)
	if err != nil {
		return fmt.Errorf("set completed %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set completed %d: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

func (s *Store) RemoveInterval(id int64) error {
	res, err := s.db.Exec(`DELETE FROM intervals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove interval %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove interval %d: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

// ClearCompleted removes every completed interval and returns how many were
// removed.
func (s *Store) ClearCompleted() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM intervals WHERE completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.notify()
	}
	return n, nil
}

// ToggleAll marks every interval completed, or every interval active when
// all of them already are completed.
func (s *Store) ToggleAll() error {
	var active int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM intervals WHERE completed = 0`).Scan(&active); err != nil {
		return fmt.Errorf("count active: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`UPDATE intervals SET completed = ?, updated_at = ?`, boolToInt(active > 0), now)
	if err != nil {
		return fmt.Errorf("toggle all: %w", err)
	}
	s.notify()
	return nil
}

// HourlyLoad spreads the scheduled minutes over the 24 hours of the day.
// Wrapping intervals count towards the early hours.
func (s *Store) HourlyLoad() ([]HourLoad, error) {
	intervals, err := s.ListIntervals(IntervalFilter{})
	if err != nil {
		return nil, err
	}
	load := make([]HourLoad, 24)
	for h := range load {
		load[h].Hour = h
	}
	for _, iv := range intervals {
		for m := iv.Start; m < iv.Start+iv.Duration; m++ {
			h := (m % dial.Day) / 60
			load[h].Minutes++
			if iv.Completed {
				load[h].Completed++
			}
		}
	}
	return load, nil
}

// checkFits rejects iv if it is malformed or if the day including it cannot
// be partitioned onto the rings.
func (s *Store) checkFits(iv Interval) error {
	if err := iv.Dial().Validate(); err != nil {
		return err
	}
	existing, err := s.ListIntervals(IntervalFilter{})
	if err != nil {
		return err
	}

	day := make([]Interval, 0, len(existing)+1)
	inserted := false
	for _, other := range existing {
		if other.ID == iv.ID && iv.ID != 0 {
			continue
		}
		if iv.Dial().Overlaps(other.Dial()) {
			return fmt.Errorf("%w: %q at %s", ErrOverlap, other.Title, dial.FormatClock(other.Start))
		}
		if !inserted && iv.Start < other.Start {
			day = append(day, iv)
			inserted = true
		}
		day = append(day, other)
	}
	if !inserted {
		day = append(day, iv)
	}

	if _, err := dial.Partition(DialIntervals(day)); err != nil {
		return fmt.Errorf("%w: %v", ErrOverlap, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
