// Package store provides the SQLite-backed structured store for
// applications, tasks, the user profile, and essays.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Schema creates all tables. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	school_name TEXT NOT NULL,
	program_name TEXT NOT NULL,
	degree_type TEXT DEFAULT 'MS',
	deadline DATE,
	status TEXT DEFAULT 'researching',
	decision TEXT DEFAULT 'pending',
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	application_id INTEGER,
	title TEXT NOT NULL,
	description TEXT,
	due_date DATETIME,
	priority TEXT DEFAULT 'medium',
	status TEXT DEFAULT 'pending',
	category TEXT DEFAULT 'other',
	reminder_date DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	FOREIGN KEY (application_id) REFERENCES applications(id)
);

CREATE TABLE IF NOT EXISTS user_profile (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	gpa REAL,
	gre_verbal INTEGER,
	gre_quant INTEGER,
	gre_writing REAL,
	major TEXT,
	research_interests TEXT,
	preferred_locations TEXT,
	undergraduate_school TEXT,
	work_experience TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS essays (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	application_id INTEGER,
	essay_type TEXT DEFAULT 'sop',
	content TEXT,
	version INTEGER DEFAULT 1,
	feedback TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (application_id) REFERENCES applications(id)
);

CREATE TABLE IF NOT EXISTS interview_notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	application_id INTEGER NOT NULL,
	interview_date DATETIME,
	interviewer_name TEXT,
	notes TEXT,
	questions_asked TEXT,
	follow_up_items TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (application_id) REFERENCES applications(id)
);

CREATE TABLE IF NOT EXISTS memory_chunks (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	embedding BLOB,
	source TEXT NOT NULL DEFAULT 'user',
	tags TEXT DEFAULT '',
	version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_application ON tasks(application_id);
CREATE INDEX IF NOT EXISTS idx_essays_application ON essays(application_id, essay_type);
CREATE INDEX IF NOT EXISTS idx_memory_chunks_source ON memory_chunks(source);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and applies the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return New(db)
}

// New wraps an existing database connection and applies the schema.
// Used by tests with an in-memory database.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying connection so the vector memory store can share it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
