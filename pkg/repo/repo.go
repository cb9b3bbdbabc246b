// Package repo locates and opens a paper repository: a directory holding
// the managed files and the SQLite database that tracks them.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"papers/pkg/db/store"
)

// Repo is an open paper repository. The store connection is held for the
// lifetime of one command invocation and released by Close.
type Repo struct {
	root  string
	store store.PaperStore
}

// Init creates a new repository in dir. It fails when the directory
// already holds a database file.
func Init(ctx context.Context, dir, dbFilename string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository directory: %w", err)
	}

	dbPath := filepath.Join(root, dbFilename)
	if _, err := os.Stat(dbPath); err == nil {
		return nil, fmt.Errorf("already a repository: %s exists", dbPath)
	}

	return open(ctx, root, dbPath)
}

// Open opens the repository rooted at dir. It fails when the directory
// holds no database file.
func Open(ctx context.Context, dir, dbFilename string) (*Repo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository directory: %w", err)
	}

	dbPath := filepath.Join(root, dbFilename)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("not a repository (no %s in %s), run init first", dbFilename, root)
	}

	return open(ctx, root, dbPath)
}

// Discover walks from start up through its parents looking for a
// directory containing the database file.
func Discover(start, dbFilename string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, dbFilename)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no repository found in %s or its parents", start)
		}
		dir = parent
	}
}

func open(ctx context.Context, root, dbPath string) (*Repo, error) {
	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: dbPath})
	if err != nil {
		return nil, err
	}
	if err := s.Connect(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repo{root: root, store: s}, nil
}

// Root returns the absolute repository root directory.
func (r *Repo) Root() string {
	return r.root
}

// Store returns the paper store backing this repository.
func (r *Repo) Store() store.PaperStore {
	return r.store
}

// Close releases the database connection.
func (r *Repo) Close() error {
	return r.store.Close()
}
