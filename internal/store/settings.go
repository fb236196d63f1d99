package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

const upsertSetting = `INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(upsertSetting, key, value)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

const (
	keyDescriptions = "description_activated"
	keySound        = "sound_activated"
	keyFocus        = "focus"
)

// ClockSettings reads the persisted clock toggles.
func (s *Store) ClockSettings() (ClockSettings, error) {
	var cs ClockSettings
	settings, err := s.GetAllSettings()
	if err != nil {
		return cs, err
	}
	for _, st := range settings {
		switch st.Key {
		case keyDescriptions:
			cs.Descriptions = st.Value == "1"
		case keySound:
			cs.Sound = st.Value == "1"
		case keyFocus:
			cs.Focus = st.Value
		}
	}
	return cs, nil
}

// SaveClockSettings persists the clock toggles in one transaction.
func (s *Store) SaveClockSettings(cs ClockSettings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save clock settings: %w", err)
	}
	defer tx.Rollback()

	for _, kv := range [][2]string{
		{keyDescriptions, strconv.Itoa(boolToInt(cs.Descriptions))},
		{keySound, strconv.Itoa(boolToInt(cs.Sound))},
		{keyFocus, cs.Focus},
	} {
		if _, err := tx.Exec(upsertSetting, kv[0], kv[1]); err != nil {
			return fmt.Errorf("save setting %q: %w", kv[0], err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save clock settings: %w", err)
	}
	return nil
}
