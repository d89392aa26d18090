package fetch

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	graberror "github.com/msto63/grab/foundation/core/error"
	"github.com/msto63/grab/foundation/utils/filex"
)

// Store persists fetched pages in sqlite so repeated runs skip the network
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// StoreStats summarizes the store contents
type StoreStats struct {
	Path   string
	Pages  int64
	Bytes  int64
	Oldest time.Time
	Newest time.Time
}

// OpenStore opens or creates the page store at path
func OpenStore(path string) (*Store, error) {
	if err := filex.EnsureParent(path); err != nil {
		return nil, err
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storeError(err, "failed to open database", "store.open")
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storeError(err, "failed to initialize schema", "store.open")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		final_url TEXT NOT NULL,
		status INTEGER NOT NULL,
		content_type TEXT,
		body BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file
func (s *Store) Path() string { return s.path }

// Get returns the page stored for url when it is younger than maxAge. A
// zero maxAge accepts any age.
func (s *Store) Get(ctx context.Context, url string, maxAge time.Duration) (*Response, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		resp        Response
		contentType sql.NullString
		fetchedAt   int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT url, final_url, status, content_type, body, fetched_at
		FROM pages WHERE url = ?
	`, url).Scan(&resp.RequestURL, &resp.URL, &resp.StatusCode, &contentType, &resp.Body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeError(err, "failed to query page", "store.get")
	}

	resp.ContentType = contentType.String
	resp.FetchedAt = time.Unix(0, fetchedAt)
	resp.Source = SourceStore

	if maxAge > 0 && time.Since(resp.FetchedAt) > maxAge {
		return nil, false, nil
	}
	return &resp, true, nil
}

// Put stores or replaces a page
func (s *Store) Put(ctx context.Context, resp *Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fetchedAt := resp.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO pages (url, final_url, status, content_type, body, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, resp.RequestURL, resp.URL, resp.StatusCode, resp.ContentType, resp.Body, fetchedAt.UnixNano())
	if err != nil {
		return storeError(err, "failed to store page", "store.put")
	}
	return nil
}

// Prune removes pages stored longer than olderThan ago
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UnixNano()
	result, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, storeError(err, "failed to prune pages", "store.prune")
	}
	return result.RowsAffected()
}

// Clear removes every page
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM pages`)
	if err != nil {
		return 0, storeError(err, "failed to clear pages", "store.clear")
	}
	return result.RowsAffected()
}

// Stats returns page count, body bytes and the age range
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{Path: s.path}
	var bytes, oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(LENGTH(body)), MIN(fetched_at), MAX(fetched_at) FROM pages
	`).Scan(&stats.Pages, &bytes, &oldest, &newest)
	if err != nil {
		return stats, storeError(err, "failed to get stats", "store.stats")
	}

	stats.Bytes = bytes.Int64
	if oldest.Valid {
		stats.Oldest = time.Unix(0, oldest.Int64)
	}
	if newest.Valid {
		stats.Newest = time.Unix(0, newest.Int64)
	}
	return stats, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func storeError(err error, msg, op string) error {
	return graberror.Wrap(err, msg).
		WithCode(graberror.CodeIO).
		WithOperation(op)
}
