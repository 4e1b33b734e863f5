// Package storage keeps program runs history.
package storage

import (
	"database/sql"
	"sync"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	// Registers sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	// Logger system.
	logSystem = "storage"
	// DefaultHistory is number of returned entries if limit is not set.
	DefaultHistory = 50
)

// Storage provider.
type provider struct {
	sync.Mutex
	db      *sql.DB
	logger  common.ILoggerProvider
	history int
}

// ConstructStorage has data required for a new storage provider.
type ConstructStorage struct {
	Logger   common.ILoggerProvider
	Settings *providers.StorageSettings
}

// NewEmptyStorageProvider returns an empty storage provider.
// It is used if no database path was supplied.
func NewEmptyStorageProvider() providers.IStorageProvider {
	return &provider{history: DefaultHistory}
}

// NewStorageProvider opens sqlite database and initializes the schema.
func NewStorageProvider(ctor *ConstructStorage) (providers.IStorageProvider, error) {
	if "" == ctor.Settings.Path {
		return NewEmptyStorageProvider(), nil
	}

	db, err := sql.Open("sqlite3", ctor.Settings.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := initSchema(db); err != nil {
		db.Close() // nolint: errcheck
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	p := &provider{
		db:      db,
		logger:  ctor.Logger,
		history: ctor.Settings.History,
	}

	if p.history <= 0 {
		p.history = DefaultHistory
	}

	p.logger.Info("History storage is opened", common.LogSystemToken, logSystem,
		common.LogFileToken, ctor.Settings.Path)
	return p, nil
}

// Creates tables.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS program_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			bulb TEXT NOT NULL,
			program TEXT NOT NULL,
			status TEXT NOT NULL,
			duration REAL,
			elapsed REAL,
			error TEXT,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_run ON program_history(run_id);
	`)

	return err
}

// Record appends a program status.
func (p *provider) Record(msg *common.MsgProgramStatus) error {
	p.Lock()
	defer p.Unlock()

	if nil == p.db {
		return nil
	}

	_, err := p.db.Exec(`
		INSERT INTO program_history (run_id, bulb, program, status, duration, elapsed, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.RunID, msg.Bulb, msg.Program, string(msg.Status), msg.Duration, msg.Elapsed, msg.Error,
		time.Now().UTC().UnixNano())

	return errors.Wrap(err, "failed to insert history entry")
}

// History returns latest entries first. Non positive limit falls back to configured one.
func (p *provider) History(limit int) ([]*providers.HistoryEntry, error) {
	p.Lock()
	defer p.Unlock()

	out := make([]*providers.HistoryEntry, 0)
	if nil == p.db {
		return out, nil
	}

	if limit <= 0 {
		limit = p.history
	}

	rows, err := p.db.Query(`
		SELECT run_id, bulb, program, status, duration, elapsed, error, created_at
		FROM program_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query history")
	}
	defer rows.Close() // nolint: errcheck

	for rows.Next() {
		e := &providers.HistoryEntry{}
		var status string
		var errText sql.NullString
		var duration, elapsed sql.NullFloat64
		var created int64

		if err := rows.Scan(&e.RunID, &e.Bulb, &e.Program, &status, &duration, &elapsed, &errText,
			&created); err != nil {
			return nil, errors.Wrap(err, "failed to read history entry")
		}

		e.Status = common.ProgramState(status)
		e.Duration = duration.Float64
		e.Elapsed = elapsed.Float64
		e.Error = errText.String
		e.Time = time.Unix(0, created).UTC()
		out = append(out, e)
	}

	return out, rows.Err()
}

// Close closes the database.
func (p *provider) Close() error {
	p.Lock()
	defer p.Unlock()

	if nil == p.db {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}
