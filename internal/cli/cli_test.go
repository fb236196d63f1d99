package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/dialclock/internal/store"
)

func init() {
	color.NoColor = true
	homedir.DisableCache = true
}

// setup points config, database and log at a temporary directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("DIALCLOCK_DB", filepath.Join(dir, "dialclock.db"))
	t.Setenv("DIALCLOCK_LOG_FILE", filepath.Join(dir, "dialclock.log"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "dialclock %s", strings.Join(args, " "))
	return out
}

func openStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(dir, "dialclock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// add / list
// ============================================================

func TestAddAndList(t *testing.T) {
	setup(t)

	out := mustRun(t, "add", "--at", "04:00", "--for", "1h", "Dentist")
	assert.Contains(t, out, "added 1 Dentist 04:00-05:00")

	mustRun(t, "add", "--at", "23:00", "--for", "3h", "--color", "#002880", "Night", "shift")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "Night shift")
	assert.Contains(t, out, "02:00", "wrapping todo ends the next morning")
	assert.Less(t, strings.Index(out, "Dentist"), strings.Index(out, "Night shift"), "sorted by start")
}

func TestAddRejectsBadInput(t *testing.T) {
	setup(t)

	_, err := run(t, "add", "--at", "25:00", "Late")
	assert.Error(t, err)

	_, err = run(t, "add", "--at", "10:00", "--for", "90s", "Short")
	assert.Error(t, err)

	_, err = run(t, "add", "--at", "10:00")
	assert.Error(t, err, "title is required")

	_, err = run(t, "add", "Untimed")
	assert.Error(t, err, "--at is required")

	_, err = run(t, "add", "--at", "10:00", "--color", "#123456", "Off palette")
	assert.Error(t, err)
	_, err = run(t, "add", "--at", "10:00", "--color", "red", "Named")
	assert.Error(t, err)
}

func TestAddColorFromPalette(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "--at", "10:00", "--color", "#fa2357", "Dentist")
	mustRun(t, "add", "--at", "12:00", "Lunch")

	s := openStore(t, dir)
	iv, err := s.GetInterval(1)
	require.NoError(t, err)
	assert.Equal(t, "#FA2357", iv.Color)

	iv, err = s.GetInterval(2)
	require.NoError(t, err)
	assert.Equal(t, "#73BE84", iv.Color, "default color")
}

func TestAddRejectsOverlap(t *testing.T) {
	setup(t)
	mustRun(t, "add", "--at", "09:00", "--for", "2h", "Meeting")

	_, err := run(t, "add", "--at", "10:00", "--for", "30m", "Clash")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrOverlap)
}

func TestListEmptyAndStatus(t *testing.T) {
	dir := setup(t)
	assert.Contains(t, mustRun(t, "list"), "nothing scheduled")

	mustRun(t, "add", "--at", "08:00", "--for", "30m", "Breakfast")
	mustRun(t, "add", "--at", "13:00", "--for", "45m", "Walk")
	mustRun(t, "done", "1")

	out := mustRun(t, "list", "--status", "active")
	assert.NotContains(t, out, "Breakfast")
	assert.Contains(t, out, "Walk")

	out = mustRun(t, "list", "-s", "completed")
	assert.Contains(t, out, "Breakfast")
	assert.NotContains(t, out, "Walk")

	_, err := run(t, "list", "--status", "someday")
	assert.Error(t, err)

	s := openStore(t, dir)
	iv, err := s.GetInterval(1)
	require.NoError(t, err)
	assert.True(t, iv.Completed)
}

// ============================================================
// done / rm / clear / toggle
// ============================================================

func TestDoneUndo(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "--at", "08:00", "--for", "30m", "Breakfast")

	assert.Contains(t, mustRun(t, "done", "1"), "completed 1 todo(s)")
	assert.Contains(t, mustRun(t, "done", "--undo", "1"), "reopened 1 todo(s)")

	iv, err := openStore(t, dir).GetInterval(1)
	require.NoError(t, err)
	assert.False(t, iv.Completed)
}

func TestDoneUnknownID(t *testing.T) {
	setup(t)
	_, err := run(t, "done", "42")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, "done", "abc")
	assert.Error(t, err)
}

func TestRemoveAndClear(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "--at", "08:00", "--for", "30m", "Breakfast")
	mustRun(t, "add", "--at", "12:00", "--for", "30m", "Lunch")
	mustRun(t, "add", "--at", "19:00", "--for", "30m", "Dinner")

	assert.Contains(t, mustRun(t, "rm", "2"), "removed 1 todo(s)")
	mustRun(t, "done", "1")
	assert.Contains(t, mustRun(t, "clear"), "cleared 1 completed todo(s)")

	intervals, err := openStore(t, dir).ListIntervals(store.IntervalFilter{})
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, "Dinner", intervals[0].Title)
}

func TestToggle(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "--at", "08:00", "--for", "30m", "Breakfast")
	mustRun(t, "add", "--at", "12:00", "--for", "30m", "Lunch")

	mustRun(t, "toggle")
	s := openStore(t, dir)
	active, err := s.ListIntervals(store.IntervalFilter{Status: store.StatusActive})
	require.NoError(t, err)
	assert.Empty(t, active)
	s.Close()

	mustRun(t, "toggle")
	done, err := openStore(t, dir).ListIntervals(store.IntervalFilter{Status: store.StatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, done)
}

// ============================================================
// rings / export
// ============================================================

func TestRings(t *testing.T) {
	setup(t)
	mustRun(t, "add", "--at", "04:00", "--for", "1h", "Dentist")
	mustRun(t, "add", "--at", "11:00", "--for", "2h", "Lunch")

	out := mustRun(t, "rings")
	assert.Contains(t, out, "AM")
	assert.Contains(t, out, "PM")
	assert.Contains(t, out, "Dentist")
	// Lunch crosses noon and shows on both rings.
	assert.Equal(t, 2, strings.Count(out, "Lunch"))

	out = mustRun(t, "rings", "--ring", "pm")
	assert.NotContains(t, out, "Dentist")
	assert.Contains(t, out, "13:00")

	_, err := run(t, "rings", "--ring", "noon")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "--at", "04:00", "--for", "1h", "Dentist")

	out := mustRun(t, "export", "--format", "csv")
	want := filepath.Join(dir, "dialclock-export-"+time.Now().Format("2006-01-02")+".csv")
	assert.Contains(t, out, want)
	_, err := os.Stat(want)
	assert.NoError(t, err)

	ringsPath := filepath.Join(dir, "rings.json")
	mustRun(t, "export", "-f", "rings", "-o", ringsPath)
	data, err := os.ReadFile(ringsPath)
	require.NoError(t, err)
	var rings struct {
		AM []struct {
			Title string `json:"title"`
		} `json:"am"`
	}
	require.NoError(t, json.Unmarshal(data, &rings))
	assert.NotEmpty(t, rings.AM)

	_, err = run(t, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestExportPath(t *testing.T) {
	setup(t)
	now := time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)

	p, err := exportPath("", "rings", now)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "dialclock-export-2024-01-15-rings.json"))

	p, err = exportPath("~/out.csv", "csv", now)
	require.NoError(t, err)
	home, _ := homedir.Dir()
	assert.Equal(t, filepath.Join(home, "out.csv"), p)
}

func TestBadConfigFails(t *testing.T) {
	setup(t)
	t.Setenv("DIALCLOCK_FOCUS", "evening")
	_, err := run(t, "list")
	assert.Error(t, err)
}
