// Package journal records card table events to SQLite so finished games can
// be listed, inspected and exported. It uses the pure-Go modernc.org/sqlite
// driver, so no CGO is needed.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/phanxgames/cardtable"
	"github.com/phanxgames/cardtable/internal/config"
)

// MemoryPath opens a private in-memory journal.
const MemoryPath = ":memory:"

// Journal is an open journal database.
type Journal struct {
	db     *sql.DB
	logger *log.Logger
}

// SessionInfo summarizes one recorded session.
type SessionInfo struct {
	ID        int64
	Game      string
	Events    int
	StartedAt time.Time
}

// Entry is one recorded event.
type Entry struct {
	Seq       int
	Type      string
	Card      string
	CardID    uint64
	Cards     int
	Container string
	From      string
	To        string
	At        time.Duration
}

// Option configures Open.
type Option func(*Journal)

// WithLogger sets the logger used for write failures inside EmitEvent.
func WithLogger(l *log.Logger) Option {
	return func(j *Journal) { j.logger = l }
}

// Open creates or opens a journal at path, creating parent directories and
// running migrations. A leading ~ is expanded.
func Open(path string, opts ...Option) (*Journal, error) {
	if path != MemoryPath {
		expanded, err := config.ExpandHome(path)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		path = expanded
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: cannot open database: %w", err)
	}
	// One connection: SQLite has a single writer, and every connection to
	// :memory: would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: cannot connect to database: %w", err)
	}

	j := &Journal{db: db, logger: log.Default()}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migration failed: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			seq INTEGER NOT NULL,
			type TEXT NOT NULL,
			card TEXT NOT NULL DEFAULT '',
			card_id INTEGER NOT NULL DEFAULT 0,
			cards INTEGER NOT NULL DEFAULT 0,
			container TEXT NOT NULL DEFAULT '',
			from_container TEXT NOT NULL DEFAULT '',
			to_container TEXT NOT NULL DEFAULT '',
			at_ms INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, seq);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// StartSession opens a new session for game. clock supplies the table time
// stamped on each event; pass Manager.Clock. A nil clock records zero.
func (j *Journal) StartSession(game string, clock func() time.Duration) (*Session, error) {
	res, err := j.db.Exec("INSERT INTO sessions (game) VALUES (?)", game)
	if err != nil {
		return nil, fmt.Errorf("journal: cannot start session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("journal: cannot get session ID: %w", err)
	}
	return &Session{j: j, id: id, clock: clock}, nil
}

// Sessions lists the most recent sessions first.
func (j *Journal) Sessions(limit int) ([]SessionInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT s.id, s.game, s.started_at, COUNT(e.id)
		 FROM sessions s LEFT JOIN events e ON e.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var s SessionInfo
		var startedAt any
		if err := rows.Scan(&s.ID, &s.Game, &startedAt, &s.Events); err != nil {
			return nil, fmt.Errorf("journal: cannot scan row: %w", err)
		}
		s.StartedAt = parseTime(startedAt)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: row iteration error: %w", err)
	}
	return out, nil
}

// Entries returns the events of a session in the order they happened.
func (j *Journal) Entries(sessionID int64) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT seq, type, card, card_id, cards, container, from_container, to_container, at_ms
		 FROM events
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: cannot query events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var atMS int64
		if err := rows.Scan(&e.Seq, &e.Type, &e.Card, &e.CardID, &e.Cards,
			&e.Container, &e.From, &e.To, &atMS); err != nil {
			return nil, fmt.Errorf("journal: cannot scan row: %w", err)
		}
		e.At = time.Duration(atMS) * time.Millisecond
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Session records the events of one game. It implements
// cardtable.EventSink, so it can be handed to Manager.SetEventSink.
type Session struct {
	j     *Journal
	id    int64
	clock func() time.Duration
	seq   int
	err   error
}

// ID returns the session's database id.
func (s *Session) ID() int64 { return s.id }

// Err returns the first write error, if any.
func (s *Session) Err() error { return s.err }

// EmitEvent appends ev to the session.
func (s *Session) EmitEvent(ev cardtable.Event) {
	if err := s.Record(ev); err != nil && s.err == nil {
		s.err = err
		s.j.logger.Error("journal write failed", "session", s.id, "err", err)
	}
}

// Record appends ev to the session and reports write errors.
func (s *Session) Record(ev cardtable.Event) error {
	var at time.Duration
	if s.clock != nil {
		at = s.clock()
	}
	var card string
	var cardID uint64
	if ev.Card != nil {
		card, cardID = ev.Card.Name, uint64(ev.Card.ID())
	}
	s.seq++
	_, err := s.j.db.Exec(
		`INSERT INTO events (session_id, seq, type, card, card_id, cards, container, from_container, to_container, at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.id, s.seq, ev.Type.String(), card, cardID, len(ev.Cards),
		ContainerName(ev.Container), ContainerName(ev.From), ContainerName(ev.To), at.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("journal: cannot record %s: %w", ev.Type, err)
	}
	return nil
}

// ContainerName returns the display name of c: its Name when it has one,
// otherwise its type. Nil yields "".
func ContainerName(c cardtable.Container) string {
	if c == nil {
		return ""
	}
	if n, ok := c.(cardtable.Namer); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", c)
}
