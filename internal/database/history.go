package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/xmldecode/internal/model"
)

// FileName is the name of the history database inside its directory.
const FileName = "xmldecode.db"

// DefaultListLimit is the number of runs ListRuns returns for a
// non-positive limit.
const DefaultListLimit = 20

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned when the database must already exist
	// and does not.
	ErrDatabaseNotFound = errors.New("history database not found")
)

// timestampLayout is how run timestamps are stored. It sorts lexically.
const timestampLayout = "2006-01-02 15:04:05.000"

// HistoryDB stores decoded jobs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		tag_name TEXT NOT NULL,
		digest TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		result_count INTEGER NOT NULL DEFAULT 0,
		base64_count INTEGER NOT NULL DEFAULT 0,
		embedded INTEGER NOT NULL DEFAULT 0,
		job_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex SHA3-256 digest of document.
func Digest(document string) string {
	sum := sha3.Sum256([]byte(document))
	return hex.EncodeToString(sum[:])
}

// RunSummary describes a stored run without its results.
type RunSummary struct {
	ID          string
	Source      string
	TagName     string
	Digest      string
	Timestamp   time.Time
	ResultCount int
	Base64Count int
	Embedded    bool
}

// Run is a stored run together with the job it recorded.
type Run struct {
	RunSummary

	// Job is the decoded job. Its Document is not stored and is empty.
	Job *model.Job
}

// SaveJob stores job as a new run and returns the run ID.
func (hdb *HistoryDB) SaveJob(ctx context.Context, job *model.Job) (string, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}

	id := uuid.NewString()
	timestamp := job.DateProcessed
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	query := `
	INSERT INTO runs (id, source, tag_name, digest, timestamp, result_count, base64_count, embedded, job_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		id,
		job.Source,
		job.TagName,
		Digest(job.Document),
		timestamp.UTC().Format(timestampLayout),
		len(job.Results),
		job.Base64Count(),
		job.EmbeddedFound,
		string(jobJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	return id, nil
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit means DefaultListLimit.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
	SELECT id, source, tag_name, digest, timestamp, result_count, base64_count, embedded
	FROM runs
	ORDER BY timestamp DESC, rowid DESC
	LIMIT ?
	`
	return hdb.querySummaries(ctx, query, limit)
}

// FindByDigest returns every run of the document with the given digest,
// newest first.
func (hdb *HistoryDB) FindByDigest(ctx context.Context, digest string) ([]RunSummary, error) {
	query := `
	SELECT id, source, tag_name, digest, timestamp, result_count, base64_count, embedded
	FROM runs
	WHERE digest = ?
	ORDER BY timestamp DESC, rowid DESC
	`
	return hdb.querySummaries(ctx, query, digest)
}

func (hdb *HistoryDB) querySummaries(ctx context.Context, query string, args ...any) ([]RunSummary, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var run RunSummary
		var timestamp string

		if err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.TagName,
			&run.Digest,
			&timestamp,
			&run.ResultCount,
			&run.Base64Count,
			&run.Embedded,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = parseTimestamp(timestamp)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
	SELECT id, source, tag_name, digest, timestamp, result_count, base64_count, embedded, job_json
	FROM runs
	WHERE id = ?
	`

	var run Run
	var timestamp, jobJSON string

	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Source,
		&run.TagName,
		&run.Digest,
		&timestamp,
		&run.ResultCount,
		&run.Base64Count,
		&run.Embedded,
		&jobJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Timestamp = parseTimestamp(timestamp)

	var job model.Job
	if err := json.Unmarshal([]byte(jobJSON), &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	if job.ErrorMessage != "" {
		job.Error = errors.New(job.ErrorMessage)
	}
	run.Job = &job

	return &run, nil
}

// DeleteRun removes the run with the given ID, or returns ErrRunNotFound.
func (hdb *HistoryDB) DeleteRun(ctx context.Context, id string) error {
	result, err := hdb.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp parses s as UTC, returning the zero time if no known
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
