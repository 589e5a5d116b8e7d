package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// CrawlDB provides SQLite-based storage for crawled pages and run reports.
// It manages connection pooling and provides methods for CRUD operations.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "cherpy.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Pages store individual crawled page records as JSON
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		site TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		title TEXT,
		text TEXT,
		record_json TEXT NOT NULL,
		UNIQUE(url, site)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_site ON pages(site);
	CREATE INDEX IF NOT EXISTS idx_pages_timestamp ON pages(timestamp);

	-- Runs store complete run reports as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_visited INTEGER DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	-- Answers store question/answer pairs produced for a run
	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT,
		failed INTEGER DEFAULT 0,
		fail_reason TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_answers_run ON answers(run_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertPageRecord inserts or updates a crawled page record.
// Uses UPSERT to handle duplicates (same URL + site).
func (cdb *CrawlDB) InsertPageRecord(ctx context.Context, site string, record *model.PageRecord) (int64, error) {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize page record: %w", err)
	}

	query := `
	INSERT INTO pages (url, site, title, text, record_json)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url, site) DO UPDATE SET
		title = excluded.title,
		text = excluded.text,
		record_json = excluded.record_json,
		timestamp = CURRENT_TIMESTAMP
	`

	result, err := cdb.db.ExecContext(ctx, query,
		record.URL,
		site,
		record.Metadata.Title,
		record.Text,
		string(recordJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert page record: %w", err)
	}

	return result.LastInsertId()
}

// GetPageRecord retrieves a page record by URL and site.
// Returns nil without error when no record exists.
func (cdb *CrawlDB) GetPageRecord(ctx context.Context, url, site string) (*model.PageRecord, error) {
	query := `
	SELECT record_json FROM pages
	WHERE url = ? AND site = ?
	`

	var recordJSON string
	err := cdb.db.QueryRowContext(ctx, query, url, site).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page record: %w", err)
	}

	var record model.PageRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to parse page record: %w", err)
	}

	return &record, nil
}

// SaveRunReport saves a complete run report and its answers.
// Returns the new run's database ID.
func (cdb *CrawlDB) SaveRunReport(ctx context.Context, report *model.RunReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run report: %w", err)
	}

	query := `
	INSERT INTO runs (site, pages_visited, report_json)
	VALUES (?, ?, ?)
	`

	result, err := cdb.db.ExecContext(ctx, query,
		report.RootURL,
		report.PagesVisited,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run report: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, a := range report.Answers {
		if err := cdb.insertAnswer(ctx, runID, a); err != nil {
			return 0, err
		}
	}

	return runID, nil
}

// insertAnswer inserts a single answer record for a run.
func (cdb *CrawlDB) insertAnswer(ctx context.Context, runID int64, a model.AnswerRecord) error {
	query := `
	INSERT INTO answers (run_id, question, answer, failed, fail_reason)
	VALUES (?, ?, ?, ?, ?)
	`

	failed := 0
	if a.Failed {
		failed = 1
	}

	_, err := cdb.db.ExecContext(ctx, query, runID, a.Question, a.Answer, failed, a.FailReason)
	if err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}

	return nil
}

// GetAnswers retrieves all answer records for a run in insertion order.
func (cdb *CrawlDB) GetAnswers(ctx context.Context, runID int64) ([]model.AnswerRecord, error) {
	query := `
	SELECT question, answer, failed, fail_reason FROM answers
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var results []model.AnswerRecord
	for rows.Next() {
		var a model.AnswerRecord
		var failed int
		if err := rows.Scan(&a.Question, &a.Answer, &failed, &a.FailReason); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		a.Failed = failed != 0
		results = append(results, a)
	}

	return results, rows.Err()
}

// GetLatestRunReport retrieves the most recent run report for a site.
// Returns nil without error when no run exists.
func (cdb *CrawlDB) GetLatestRunReport(ctx context.Context, site string) (*model.RunReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE site = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := cdb.db.QueryRowContext(ctx, query, site).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}

	return &report, nil
}

// ListCrawledSites returns a list of all sites with stored runs.
func (cdb *CrawlDB) ListCrawledSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT site FROM runs
	ORDER BY site
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Site is the crawled site's root URL.
	Site string

	// Timestamp is when the run was stored.
	Timestamp time.Time

	// PagesVisited is the number of pages fetched during the run.
	PagesVisited int
}

// GetRunHistory retrieves run metadata for a site, newest first.
// This is more efficient than loading full reports when only metadata is needed.
func (cdb *CrawlDB) GetRunHistory(ctx context.Context, site string) ([]RunMetadata, error) {
	query := `
	SELECT id, site, timestamp, pages_visited
	FROM runs
	WHERE site = ?
	ORDER BY timestamp DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.Site, &timestamp, &meta.PagesVisited); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
