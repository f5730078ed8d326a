package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound       = errors.New("story not found")
	ErrDuplicateTitle = errors.New("a story with this title already exists")
)

// Story is a saved narrative.
type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Style     string    `json:"style"`
	MaxWords  int       `json:"max_words"`
	Digest    string    `json:"digest"`
	Markdown  string    `json:"markdown"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS story (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	style      TEXT NOT NULL DEFAULT '',
	max_words  INTEGER NOT NULL DEFAULT 0,
	digest     TEXT NOT NULL DEFAULT '',
	markdown   TEXT NOT NULL,
	html       TEXT NOT NULL DEFAULT '',
	created_ts INTEGER NOT NULL,
	updated_ts INTEGER NOT NULL,
	UNIQUE (user_id, title)
);
CREATE INDEX IF NOT EXISTS idx_story_user_created ON story (user_id, created_ts DESC);
`

// Store persists stories in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and migrates) the database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate")
	}
	return &Store{db: db, now: time.Now}, nil
}

// withPragmas appends the connection pragmas, keeping any query already on dsn.
// Each pragma must be prefixed with `_pragma=` for modernc.org/sqlite.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts story, assigning its ID and timestamps.
func (s *Store) Save(ctx context.Context, story *Story) error {
	if story.UserID == "" || story.Title == "" {
		return errors.New("user id and title are required")
	}
	now := s.now().UTC().Truncate(time.Second)
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO story (id, user_id, title, style, max_words, digest, markdown, html, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, story.UserID, story.Title, story.Style, story.MaxWords,
		story.Digest, story.Markdown, story.HTML, now.Unix(), now.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateTitle
		}
		return errors.Wrap(err, "failed to save story")
	}
	// Only a stored story gets an identity.
	story.ID = id
	story.CreatedAt = now
	story.UpdatedAt = now
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Story, error) {
	row := s.db.QueryRowContext(ctx, selectStory+` WHERE id = ?`, id)
	story, err := scanStory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get story")
	}
	return story, nil
}

// ListByUser returns userID's stories, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*Story, error) {
	rows, err := s.db.QueryContext(ctx, selectStory+` WHERE user_id = ? ORDER BY created_ts DESC, rowid DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stories")
	}
	defer rows.Close()

	var list []*Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan story")
		}
		list = append(list, story)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate stories")
	}
	return list, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM story WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete story")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to delete story")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectStory = `SELECT id, user_id, title, style, max_words, digest, markdown, html, created_ts, updated_ts FROM story`

type scanner interface {
	Scan(dest ...any) error
}

func scanStory(sc scanner) (*Story, error) {
	var (
		story            Story
		created, updated int64
	)
	if err := sc.Scan(&story.ID, &story.UserID, &story.Title, &story.Style, &story.MaxWords,
		&story.Digest, &story.Markdown, &story.HTML, &created, &updated); err != nil {
		return nil, err
	}
	story.CreatedAt = time.Unix(created, 0).UTC()
	story.UpdatedAt = time.Unix(updated, 0).UTC()
	return &story, nil
}
