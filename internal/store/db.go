package store

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/filedrop/internal/debug"
)

type EventType int

const (
	RecordDrop EventType = iota
	FetchRecent
	ClearJournal
)

// Outcome records what the zone did with a drop
type Outcome string

const (
	Delivered  Outcome = "delivered"  // OnDrop received the files
	Suppressed Outcome = "suppressed" // accept pattern rejected the payload
	FrameOnly  Outcome = "frame"      // dropped on the frame outside the target
)

// Entry is one journaled drop
type Entry struct {
	ID         string
	At         time.Time
	Outcome    Outcome
	AcceptType string
	FileCount  int
	TotalBytes int64
	Paths      []string
}

type Request struct {
	Op    EventType
	Entry Entry
	Limit int
}

type Response struct {
	Op      EventType
	Entry   Entry   // the recorded entry, with ID and time filled in
	Entries []Entry // newest first
	Err     error
}

type DB struct {
	conn         *sql.DB
	RequestChan  chan Request
	ResponseChan chan Response
}

func NewDB() *DB {
	return &DB{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// DefaultPath returns the journal location under the user config dir
func DefaultPath() string {
	configDir, _ := os.UserConfigDir()
	return filepath.Join(configDir, "filedrop", "journal.db")
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	// Synchronous NORMAL is safe against app crashes, faster than FULL
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	query := `
	CREATE TABLE IF NOT EXISTS drops (
		id TEXT PRIMARY KEY,
		at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		accept_type TEXT NOT NULL,
		file_count INTEGER NOT NULL,
		total_bytes INTEGER NOT NULL,
		paths TEXT NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS drops_at ON drops(at);"); err != nil {
		db.Close()
		return err
	}

	d.conn = db
	debug.Log(debug.STORE, "Journal opened at %s", dbPath)
	return nil
}

func (d *DB) Start() {
	for req := range d.RequestChan {
		switch req.Op {
		case RecordDrop:
			d.handleRecord(req.Entry)
		case FetchRecent:
			d.handleFetch(req.Limit)
		case ClearJournal:
			d.handleClear()
		}
	}
}

// Record inserts e synchronously and returns it with ID and time filled in
func (d *DB) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := d.conn.Exec(
		"INSERT INTO drops (id, at, outcome, accept_type, file_count, total_bytes, paths) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.At.UnixNano(), string(e.Outcome), e.AcceptType, e.FileCount, e.TotalBytes, strings.Join(e.Paths, "\n"),
	)
	return e, err
}

// Recent returns up to limit entries, newest first
func (d *DB) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(
		"SELECT id, at, outcome, accept_type, file_count, total_bytes, paths FROM drops ORDER BY at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			at      int64
			outcome string
			paths   string
		)
		if err := rows.Scan(&e.ID, &at, &outcome, &e.AcceptType, &e.FileCount, &e.TotalBytes, &paths); err != nil {
			continue
		}
		e.At = time.Unix(0, at)
		e.Outcome = Outcome(outcome)
		if paths != "" {
			e.Paths = strings.Split(paths, "\n")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *DB) handleRecord(e Entry) {
	rec, err := d.Record(e)
	if err != nil {
		log.Printf("Store Error: %v", err)
	}
	d.ResponseChan <- Response{Op: RecordDrop, Entry: rec, Err: err}
}

func (d *DB) handleFetch(limit int) {
	entries, err := d.Recent(limit)
	d.ResponseChan <- Response{Op: FetchRecent, Entries: entries, Err: err}
}

func (d *DB) handleClear() {
	_, err := d.conn.Exec("DELETE FROM drops")
	if err != nil {
		log.Printf("Store Error clearing journal: %v", err)
	}
	d.ResponseChan <- Response{Op: ClearJournal, Err: err}
}

func (d *DB) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
}
