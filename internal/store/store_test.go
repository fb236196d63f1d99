package store

import (
	"errors"
	"testing"

	"github.com/sadopc/dialclock/internal/dial"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAdd(t *testing.T, s *Store, title string, start, duration int) *Interval {
	t.Helper()
	iv, err := s.AddInterval(title, start, duration, "#73BE84")
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	return iv
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/dialclock.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "persisted", 60, 30)
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.ListIntervals(IntervalFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "persisted" {
		t.Fatalf("expected reopened store to keep data, got %+v", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Intervals
// ============================================================

func TestAddAndGetInterval(t *testing.T) {
	s := newTestStore(t)
	iv, err := s.AddInterval("Dentist", 240, 60, "#FA2357")
	if err != nil {
		t.Fatal(err)
	}
	if iv.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if iv.Title != "Dentist" || iv.Start != 240 || iv.Duration != 60 || iv.Color != "#FA2357" {
		t.Fatalf("unexpected interval: %+v", iv)
	}
	if iv.Completed {
		t.Fatal("new interval should be active")
	}
	if iv.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}

	fetched, err := s.GetInterval(iv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Title != "Dentist" {
		t.Fatalf("GetInterval returned wrong title: %s", fetched.Title)
	}
}

func TestGetIntervalNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetInterval(999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddIntervalMalformed(t *testing.T) {
	s := newTestStore(t)
	cases := []struct{ start, duration int }{
		{10, 0},
		{-1, 30},
		{1440, 30},
		{1400, 1500},
	}
	for _, c := range cases {
		_, err := s.AddInterval("bad", c.start, c.duration, "#000")
		if !errors.Is(err, dial.ErrMalformedInterval) {
			t.Fatalf("AddInterval(%d, %d): expected ErrMalformedInterval, got %v", c.start, c.duration, err)
		}
	}
}

func TestAddIntervalOverlap(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "a", 100, 60)

	if _, err := s.AddInterval("b", 130, 60, "#000"); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if _, err := s.AddInterval("c", 160, 30, "#000"); err != nil {
		t.Fatalf("back-to-back interval should fit: %v", err)
	}
}

func TestAddIntervalWrapOverlap(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "early", 60, 60)

	if _, err := s.AddInterval("night", 1380, 120, "#000"); !errors.Is(err, ErrOverlap) {
		t.Fatalf("tail touching the first interval: expected ErrOverlap, got %v", err)
	}
	if _, err := s.AddInterval("night", 1380, 90, "#000"); err != nil {
		t.Fatalf("wrap with free time left should fit: %v", err)
	}
	if _, err := s.AddInterval("late", 1300, 60, "#000"); err != nil {
		t.Fatalf("interval before the wrapping one should fit: %v", err)
	}
}

func TestListIntervalsSortedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	c := mustAdd(t, s, "c", 900, 30)
	mustAdd(t, s, "a", 60, 30)
	mustAdd(t, s, "b", 600, 30)
	if err := s.SetCompleted(c.ID, true); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListIntervals(IntervalFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Title != "a" || all[1].Title != "b" || all[2].Title != "c" {
		t.Fatalf("expected sorted by start, got %+v", all)
	}

	active, _ := s.ListIntervals(IntervalFilter{Status: StatusActive})
	if len(active) != 2 {
		t.Fatalf("expected 2 active, got %d", len(active))
	}
	done, _ := s.ListIntervals(IntervalFilter{Status: StatusCompleted})
	if len(done) != 1 || done[0].Title != "c" {
		t.Fatalf("expected only c completed, got %+v", done)
	}
	limited, _ := s.ListIntervals(IntervalFilter{Limit: 1})
	if len(limited) != 1 {
		t.Fatalf("expected 1 with limit, got %d", len(limited))
	}
}

func TestListIntervalsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListIntervals(IntervalFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil slice, got %d items", len(got))
	}
}

func TestUpdateInterval(t *testing.T) {
	s := newTestStore(t)
	iv := mustAdd(t, s, "old", 100, 60)
	mustAdd(t, s, "other", 300, 60)

	iv.Title = "new"
	iv.Start = 120
	if err := s.UpdateInterval(*iv); err != nil {
		t.Fatalf("moving an interval over its own old slot should work: %v", err)
	}
	got, _ := s.GetInterval(iv.ID)
	if got.Title != "new" || got.Start != 120 {
		t.Fatalf("update failed: %+v", got)
	}

	iv.Start = 290
	if err := s.UpdateInterval(*iv); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	missing := *iv
	missing.ID = 999
	if err := s.UpdateInterval(missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetCompletedAndRemove(t *testing.T) {
	s := newTestStore(t)
	iv := mustAdd(t, s, "x", 100, 60)

	if err := s.SetCompleted(iv.ID, true); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetInterval(iv.ID)
	if !got.Completed {
		t.Fatal("expected completed")
	}
	if err := s.SetCompleted(999, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.RemoveInterval(iv.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveInterval(iv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestClearCompleted(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", 0, 30)
	b := mustAdd(t, s, "b", 60, 30)
	mustAdd(t, s, "c", 120, 30)
	s.SetCompleted(a.ID, true)
	s.SetCompleted(b.ID, true)

	n, err := s.ClearCompleted()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	left, _ := s.ListIntervals(IntervalFilter{})
	if len(left) != 1 || left[0].Title != "c" {
		t.Fatalf("expected only c left, got %+v", left)
	}
}

func TestToggleAll(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", 0, 30)
	mustAdd(t, s, "b", 60, 30)
	s.SetCompleted(a.ID, true)

	if err := s.ToggleAll(); err != nil {
		t.Fatal(err)
	}
	done, _ := s.ListIntervals(IntervalFilter{Status: StatusCompleted})
	if len(done) != 2 {
		t.Fatalf("expected all completed, got %d", len(done))
	}

	if err := s.ToggleAll(); err != nil {
		t.Fatal(err)
	}
	active, _ := s.ListIntervals(IntervalFilter{Status: StatusActive})
	if len(active) != 2 {
		t.Fatalf("expected all active again, got %d", len(active))
	}
}

func TestHourlyLoad(t *testing.T) {
	s := newTestStore(t)
	done := mustAdd(t, s, "a", 90, 60)
	mustAdd(t, s, "night", 1410, 60)
	s.SetCompleted(done.ID, true)

	load, err := s.HourlyLoad()
	if err != nil {
		t.Fatal(err)
	}
	if len(load) != 24 {
		t.Fatalf("expected 24 hours, got %d", len(load))
	}
	want := map[int]int{0: 30, 1: 30, 2: 30, 23: 30}
	for _, l := range load {
		if l.Minutes != want[l.Hour] {
			t.Fatalf("hour %d: expected %d minutes, got %d", l.Hour, want[l.Hour], l.Minutes)
		}
	}
	if load[1].Completed != 30 || load[0].Completed != 0 {
		t.Fatalf("unexpected completed minutes: %+v %+v", load[0], load[1])
	}
}

func TestStoredDayPartitions(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "a", 240, 60)
	mustAdd(t, s, "c", 600, 240)
	mustAdd(t, s, "e", 1380, 180)

	ivs, _ := s.ListIntervals(IntervalFilter{})
	if _, err := dial.Partition(DialIntervals(ivs)); err != nil {
		t.Fatalf("stored day should always partition: %v", err)
	}
}

// ============================================================
// Subscriptions
// ============================================================

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	iv := mustAdd(t, s, "a", 0, 30)
	s.SetCompleted(iv.ID, true)
	s.RemoveInterval(iv.ID)
	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}

	s.AddInterval("bad", 0, 0, "#000")
	if calls != 3 {
		t.Fatal("failed add should not notify")
	}

	cancel()
	mustAdd(t, s, "b", 60, 30)
	if calls != 3 {
		t.Fatal("cancelled subscription should not be called")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"description_activated": "1",
		"sound_activated":       "0",
		"focus":                 "",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestClockSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	cs, err := s.ClockSettings()
	if err != nil {
		t.Fatal(err)
	}
	if !cs.Descriptions || cs.Sound || cs.Focus != "" {
		t.Fatalf("unexpected defaults: %+v", cs)
	}

	want := ClockSettings{Descriptions: false, Sound: true, Focus: "pm"}
	if err := s.SaveClockSettings(want); err != nil {
		t.Fatal(err)
	}
	got, _ := s.ClockSettings()
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSaveClockSettingsAllOrNothing(t *testing.T) {
	s := newTestStore(t)
	for _, q := range []string{
		`CREATE TRIGGER lock_focus_update BEFORE UPDATE ON settings WHEN NEW.key = 'focus'
			BEGIN SELECT RAISE(ABORT, 'focus locked'); END`,
		`CREATE TRIGGER lock_focus_insert BEFORE INSERT ON settings WHEN NEW.key = 'focus'
			BEGIN SELECT RAISE(ABORT, 'focus locked'); END`,
	} {
		if _, err := s.db.Exec(q); err != nil {
			t.Fatalf("create trigger: %v", err)
		}
	}

	err := s.SaveClockSettings(ClockSettings{Descriptions: false, Sound: true, Focus: "pm"})
	if err == nil {
		t.Fatal("expected the focus write to fail")
	}

	got, err := s.ClockSettings()
	if err != nil {
		t.Fatal(err)
	}
	if want := (ClockSettings{Descriptions: true}); got != want {
		t.Fatalf("failed save left %+v, want %+v", got, want)
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{"": StatusAll, "all": StatusAll, "active": StatusActive, "completed": StatusCompleted} {
		got, ok := ParseStatus(in)
		if !ok || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseStatus("done"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}
