package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/udaxgui/blog"
)

// DefaultDatabasePath is used by the sqlite and gorm backends.
const DefaultDatabasePath = "data/blog.db"

// timeLayout sorts lexically in chronological order for UTC values.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const postColumns = `id, title, slug, excerpt, content, category, image, meta_description, published, featured, created_at, updated_at`

// SQLite stores posts one row each in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path, ensures the data
// directory exists, and creates the schema.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = DefaultDatabasePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a writer holds the lock; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 1,
    featured INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_slug ON posts(slug);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (blog.Post, error) {
	var p blog.Post
	var published, featured int
	var created, updated string
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category, &p.Image,
		&p.MetaDescription, &published, &featured, &created, &updated); err != nil {
		return blog.Post{}, err
	}
	p.Published = published == 1
	p.Featured = featured == 1
	var err error
	if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return blog.Post{}, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return blog.Post{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// List returns every post ordered by creation time descending.
func (s *SQLite) List(ctx context.Context) ([]blog.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetBySlug returns a post by slug regardless of published status.
func (s *SQLite) GetBySlug(ctx context.Context, slug string) (blog.Post, error) {
	return s.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ? ORDER BY created_at DESC LIMIT 1`, slug)
}

// GetByID returns a post by id.
func (s *SQLite) GetByID(ctx context.Context, id string) (blog.Post, error) {
	return s.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
}

func (s *SQLite) getOne(ctx context.Context, query string, arg string) (blog.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return blog.Post{}, ErrNotFound
	}
	return p, err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// slugTakenFunc checks slug usage against q, ignoring the row with selfID.
// A failed lookup counts as taken so the caller moves on to the next suffix.
func slugTakenFunc(ctx context.Context, q querier, selfID string) func(string) bool {
	return func(slug string) bool {
		var n int
		err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE slug = ? AND id <> ?`, slug, selfID).Scan(&n)
		return err != nil || n > 0
	}
}

func insertPost(ctx context.Context, q querier, p blog.Post) error {
	_, err := q.ExecContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Category, p.Image, p.MetaDescription,
		boolInt(p.Published), boolInt(p.Featured),
		p.CreatedAt.UTC().Format(timeLayout), p.UpdatedAt.UTC().Format(timeLayout))
	return err
}

// Create inserts a new post.
func (s *SQLite) Create(ctx context.Context, in blog.PostInput) (blog.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return blog.Post{}, err
	}
	defer tx.Rollback()

	p, err := blog.NewPost(in, newID(), now(), slugTakenFunc(ctx, tx, ""))
	if err != nil {
		return blog.Post{}, err
	}
	if err := insertPost(ctx, tx, p); err != nil {
		return blog.Post{}, err
	}
	return p, tx.Commit()
}

// Update merges patch into the stored post and writes the full row back.
func (s *SQLite) Update(ctx context.Context, id string, patch blog.PostPatch) (blog.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return blog.Post{}, err
	}
	defer tx.Rollback()

	current, err := scanPost(tx.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return blog.Post{}, ErrNotFound
	}
	if err != nil {
		return blog.Post{}, err
	}
	p, err := current.Apply(patch, now(), slugTakenFunc(ctx, tx, id))
	if err != nil {
		return blog.Post{}, err
	}
	_, err = tx.ExecContext(ctx, `UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?, category = ?, image = ?,
		meta_description = ?, published = ?, featured = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Category, p.Image, p.MetaDescription,
		boolInt(p.Published), boolInt(p.Featured), p.UpdatedAt.UTC().Format(timeLayout), id)
	if err != nil {
		return blog.Post{}, err
	}
	return p, tx.Commit()
}

// Delete removes a post by id.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the table contents for posts in one transaction.
func (s *SQLite) ReplaceAll(ctx context.Context, posts []blog.Post) error {
	if err := validateAll(posts); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	for _, p := range prepareBulk(posts) {
		if err := insertPost(ctx, tx, p); err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
