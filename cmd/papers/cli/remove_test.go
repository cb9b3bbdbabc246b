package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"papers/pkg/db/models"
	"papers/pkg/repo"
)

func newTestRepo(t *testing.T) *repo.Repo {
	t.Helper()

	r, err := repo.Init(context.Background(), t.TempDir(), "papers.db")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func addPaperWithFile(t *testing.T, r *repo.Repo, filename string) uint {
	t.Helper()

	path := filepath.Join(r.Root(), filename)
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
	paper := models.Paper{Filename: &filename}
	if err := r.Store().CreatePaper(context.Background(), &paper, nil, nil, nil); err != nil {
		t.Fatalf("CreatePaper: %v", err)
	}
	return paper.ID
}

func discard(string, ...any) {}

func TestRemoveFileKeepsSoftDeletedReference(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	// Two papers share one file; the keeper is soft-deleted but its row
	// still references the file, so removing the other must not delete it.
	keeper := addPaperWithFile(t, r, "shared.pdf")
	filename := "shared.pdf"
	removed := models.Paper{Filename: &filename}
	if err := r.Store().CreatePaper(ctx, &removed, nil, nil, nil); err != nil {
		t.Fatalf("CreatePaper: %v", err)
	}
	if err := r.Store().SoftDeletePaper(ctx, keeper); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}
	if err := r.Store().SoftDeletePaper(ctx, removed.ID); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}

	if err := removeFile(ctx, r, removed.ID, filename, discard, discard); err != nil {
		t.Fatalf("removeFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.Root(), filename)); err != nil {
		t.Errorf("file deleted despite soft-deleted reference: %v", err)
	}
}

func TestRemoveFileDeletesUnreferencedFile(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	id := addPaperWithFile(t, r, "only.pdf")
	if err := r.Store().SoftDeletePaper(ctx, id); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}

	// The removed paper's own row must not count as a reference.
	if err := removeFile(ctx, r, id, "only.pdf", discard, discard); err != nil {
		t.Fatalf("removeFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.Root(), "only.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still present: stat err = %v", err)
	}
}

func TestRemoveFileKeepsLiveReference(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	addPaperWithFile(t, r, "shared.pdf")
	filename := "shared.pdf"
	removed := models.Paper{Filename: &filename}
	if err := r.Store().CreatePaper(ctx, &removed, nil, nil, nil); err != nil {
		t.Fatalf("CreatePaper: %v", err)
	}

	if err := removeFile(ctx, r, removed.ID, filename, discard, discard); err != nil {
		t.Fatalf("removeFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.Root(), filename)); err != nil {
		t.Errorf("file deleted despite live reference: %v", err)
	}
}
