package storage

import (
	"database/sql"
	"time"

	"jenkinsrun/internal/logger"
	"jenkinsrun/internal/storage/models"

	_ "github.com/mattn/go-sqlite3"
)

const timestampFormat = "2006-01-02 15:04:05.000000"

// Store is the run history database. Rows are only ever appended and listed;
// a run never reads history to resume.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// One invocation writes at most one row
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err = store.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Run history opened", "path", dbPath)
	return store, nil
}

// createTables creates the necessary database tables
func (s *Store) createTables() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		job_name TEXT NOT NULL,
		mode TEXT NOT NULL,
		desired TEXT NOT NULL,
		token TEXT,
		build_id TEXT,
		state TEXT NOT NULL,
		success INTEGER NOT NULL,
		params TEXT,
		message TEXT,
		error TEXT
	)
	`)

	return err
}

// InsertRun appends a run to the history and returns its ID
func (s *Store) InsertRun(run models.Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (timestamp, job_name, mode, desired, token, build_id, state, success, params, message, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Timestamp.UTC().Format(timestampFormat),
		run.JobName,
		run.Mode,
		run.Desired,
		run.Token,
		run.BuildID,
		run.State,
		run.Success,
		run.Params,
		run.Message,
		run.Error,
	)
	if err != nil {
		logger.Error("Failed to insert run", "error", err)
		return 0, err
	}

	return res.LastInsertId()
}

// GetRuns retrieves runs, newest first, with pagination
func (s *Store) GetRuns(limit, offset int) ([]models.Run, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, job_name, mode, desired, token, build_id, state, success, params, message, error FROM runs ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		var timestampStr string
		var token, buildID, params, message, errStr sql.NullString

		if err := rows.Scan(
			&run.ID,
			&timestampStr,
			&run.JobName,
			&run.Mode,
			&run.Desired,
			&token,
			&buildID,
			&run.State,
			&run.Success,
			&params,
			&message,
			&errStr,
		); err != nil {
			return nil, err
		}

		run.Token = token.String
		run.BuildID = buildID.String
		run.Params = params.String
		run.Message = message.String
		run.Error = errStr.String
		run.Timestamp = parseTimestamp(timestampStr)

		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// parseTimestamp accepts the stored format with or without microseconds.
// The driver may also hand back RFC3339 for DATETIME columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampFormat, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Ping checks the database connection
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
