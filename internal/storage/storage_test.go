package storage

import (
	"path/filepath"
	"testing"
	"time"

	"jenkinsrun/internal/storage/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestCloseNil(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Errorf("Expected nil error for nil store, got %v", err)
	}
}

func TestInsertRun(t *testing.T) {
	store := openTestStore(t)

	id, err := store.InsertRun(models.Run{
		Timestamp: time.Now(),
		JobName:   "deploy",
		Mode:      "launch",
		Desired:   "finished",
		Token:     "abc-123",
		BuildID:   "42",
		State:     "succeeded",
		Success:   true,
		Params:    `{"ENV":"staging"}`,
	})
	if err != nil {
		t.Fatalf("Failed to insert run: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive run ID, got %d", id)
	}
}

func TestGetRuns(t *testing.T) {
	store := openTestStore(t)

	baseTime := time.Now()
	for i := 0; i < 5; i++ {
		run := models.Run{
			Timestamp: baseTime.Add(time.Duration(i) * time.Second),
			JobName:   "deploy",
			Mode:      "launch",
			Desired:   "finished",
			State:     "succeeded",
			Success:   true,
			Params:    "{}",
		}
		if _, err := store.InsertRun(run); err != nil {
			t.Fatalf("Failed to insert run: %v", err)
		}
	}

	runs, err := store.GetRuns(10, 0)
	if err != nil {
		t.Fatalf("Failed to get runs: %v", err)
	}
	if len(runs) != 5 {
		t.Fatalf("Expected 5 runs, got %d", len(runs))
	}

	// Newest first
	for i := 0; i < len(runs)-1; i++ {
		if runs[i].ID <= runs[i+1].ID {
			t.Errorf("Runs are not ordered by ID DESC: run[%d].ID (%d) <= run[%d].ID (%d)",
				i, runs[i].ID, i+1, runs[i+1].ID)
		}
	}
	for i, run := range runs {
		if run.Timestamp.IsZero() {
			t.Errorf("Run %d has zero timestamp", i)
		}
		if !run.Success {
			t.Errorf("Run %d lost its success flag", i)
		}
	}

	// Pagination
	runs, err = store.GetRuns(2, 0)
	if err != nil {
		t.Fatalf("Failed to get runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs with limit 2, got %d", len(runs))
	}

	runs, err = store.GetRuns(2, 4)
	if err != nil {
		t.Fatalf("Failed to get runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run with limit 2 offset 4, got %d", len(runs))
	}
}

func TestRunWithError(t *testing.T) {
	store := openTestStore(t)

	_, err := store.InsertRun(models.Run{
		Timestamp: time.Now(),
		JobName:   "deploy",
		Mode:      "monitor",
		Desired:   "finished",
		BuildID:   "7",
		State:     "timed_out",
		Error:     "could not find the Jenkins job to monitor",
	})
	if err != nil {
		t.Fatalf("Failed to insert run: %v", err)
	}

	runs, err := store.GetRuns(1, 0)
	if err != nil {
		t.Fatalf("Failed to get runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}

	run := runs[0]
	if run.Error != "could not find the Jenkins job to monitor" {
		t.Errorf("Unexpected error message %q", run.Error)
	}
	if run.Success {
		t.Error("Expected unsuccessful run")
	}
	if run.Token != "" || run.BuildID != "7" || run.State != "timed_out" {
		t.Errorf("Unexpected run %+v", run)
	}
}

func TestClosedStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	store.Close()

	if _, err := store.InsertRun(models.Run{Timestamp: time.Now()}); err == nil {
		t.Error("Expected error inserting into closed DB, got nil")
	}
	if _, err := store.GetRuns(10, 0); err == nil {
		t.Error("Expected error getting runs from closed DB, got nil")
	}
	if err := store.Ping(); err == nil {
		t.Error("Expected error pinging closed DB, got nil")
	}
}

func TestOpen_Error(t *testing.T) {
	if store, err := Open("/path/to/non/existent/directory/history.db"); err == nil {
		t.Error("Expected error opening a database in a non-existent directory, got nil")
		store.Close()
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []string{
		"2026-10-19 12:30:45.123456",
		"2026-10-19 12:30:45",
		"2026-10-19T12:30:45.123456Z",
	}

	for _, s := range tests {
		if parseTimestamp(s).IsZero() {
			t.Errorf("Failed to parse %q", s)
		}
	}

	if !parseTimestamp("not a time").IsZero() {
		t.Error("Expected zero time for unparseable timestamp")
	}
}
