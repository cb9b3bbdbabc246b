package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"papers/pkg/db/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func strptr(s string) *string {
	return &s
}

func createPaper(t *testing.T, s *SQLiteStore, paper models.Paper, tags []string, labels []models.Label, authors []string) uint {
	t.Helper()
	if err := s.CreatePaper(context.Background(), &paper, tags, labels, authors); err != nil {
		t.Fatalf("CreatePaper: %v", err)
	}
	return paper.ID
}

func TestCreatePaperRequiresSource(t *testing.T) {
	s := newTestStore(t)

	paper := models.Paper{Title: strptr("orphan")}
	err := s.CreatePaper(context.Background(), &paper, nil, nil, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreatePaperRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{
		URL:      strptr("https://example.com/p.pdf"),
		Filename: strptr("p.pdf"),
		Title:    strptr("A Paper"),
	},
		[]string{"ml", "systems"},
		[]models.Label{{Key: "year", Value: "2022"}},
		[]string{"Ada Lovelace"},
	)
	if id == 0 {
		t.Fatal("expected a non-zero id")
	}

	got, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if got.URL == nil || *got.URL != "https://example.com/p.pdf" {
		t.Errorf("url = %v, want https://example.com/p.pdf", got.URL)
	}
	if got.Title == nil || *got.Title != "A Paper" {
		t.Errorf("title = %v, want A Paper", got.Title)
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.ModifiedAt) {
		t.Errorf("timestamps: created=%v modified=%v", got.CreatedAt, got.ModifiedAt)
	}

	tags := got.TagStrings()
	if len(tags) != 2 {
		t.Fatalf("tags = %v, want 2 entries", tags)
	}
	wantTags := map[string]bool{"ml": true, "systems": true}
	for _, tag := range tags {
		if !wantTags[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
	if len(got.Labels) != 1 || got.Labels[0].Key != "year" || got.Labels[0].Value != "2022" {
		t.Errorf("labels = %v, want year=2022", got.Labels)
	}
	if authors := got.AuthorStrings(); len(authors) != 1 || authors[0] != "Ada Lovelace" {
		t.Errorf("authors = %v, want [Ada Lovelace]", authors)
	}
}

func TestGetPaperNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPaper(context.Background(), 42, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachTagsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, []string{"ml"}, nil, nil)

	if err := s.AttachTags(ctx, id, []string{"ml", "nlp"}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}
	if err := s.AttachTags(ctx, id, []string{"ml"}); err != nil {
		t.Fatalf("AttachTags (repeat): %v", err)
	}

	got, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v, want exactly [ml nlp]", got.TagStrings())
	}
}

func TestRemoveTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, []string{"ml", "nlp"}, nil, nil)

	if err := s.RemoveTags(ctx, id, []string{"ml", "missing"}); err != nil {
		t.Fatalf("RemoveTags: %v", err)
	}
	got, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if tags := got.TagStrings(); len(tags) != 1 || tags[0] != "nlp" {
		t.Errorf("tags = %v, want [nlp]", tags)
	}
}

func TestSetLabelOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil,
		[]models.Label{{Key: "year", Value: "2022"}}, nil)

	if err := s.SetLabel(ctx, id, models.Label{Key: "year", Value: "2023"}); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}

	got, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if len(got.Labels) != 1 {
		t.Fatalf("labels = %v, want exactly one", got.Labels)
	}
	if got.Labels[0].Value != "2023" {
		t.Errorf("year = %q, want 2023", got.Labels[0].Value)
	}
}

func TestRemoveLabel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil,
		[]models.Label{{Key: "year", Value: "2022"}, {Key: "venue", Value: "sosp"}}, nil)

	if err := s.RemoveLabel(ctx, id, "year"); err != nil {
		t.Fatalf("RemoveLabel: %v", err)
	}
	got, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if len(got.Labels) != 1 || got.Labels[0].Key != "venue" {
		t.Errorf("labels = %v, want only venue=sosp", got.Labels)
	}
}

func TestSoftDeleteHidesPaper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil, nil, nil)

	if err := s.SoftDeletePaper(ctx, id); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}

	if _, err := s.GetPaper(ctx, id, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPaper after delete: got %v, want ErrNotFound", err)
	}
	got, err := s.GetPaper(ctx, id, true)
	if err != nil {
		t.Fatalf("GetPaper includeDeleted: %v", err)
	}
	if !got.Deleted {
		t.Error("paper not marked deleted")
	}

	papers, err := s.ListPapers(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListPapers: %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("list after delete = %d papers, want 0", len(papers))
	}
	papers, err = s.ListPapers(ctx, ListFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("ListPapers includeDeleted: %v", err)
	}
	if len(papers) != 1 {
		t.Errorf("list includeDeleted = %d papers, want 1", len(papers))
	}

	// Deleting twice is a no-op, deleting a missing id is not.
	if err := s.SoftDeletePaper(ctx, id); err != nil {
		t.Errorf("second SoftDeletePaper: %v", err)
	}
	if err := s.SoftDeletePaper(ctx, id+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("SoftDeletePaper missing: got %v, want ErrNotFound", err)
	}
}

func TestHardDeleteRemovesChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")},
		[]string{"ml"}, []models.Label{{Key: "year", Value: "2022"}}, []string{"Ada"})
	if err := s.SetNote(ctx, id, "notes"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	if err := s.HardDeletePaper(ctx, id); err != nil {
		t.Fatalf("HardDeletePaper: %v", err)
	}
	if _, err := s.GetPaper(ctx, id, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPaper after hard delete: got %v, want ErrNotFound", err)
	}

	for _, table := range []string{"tags", "labels", "authors", "notes"} {
		var count int64
		if err := s.db.Table(table).Where("paper_id = ?", id).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s: %d orphan rows left behind", table, count)
		}
	}
}

func TestListPapersFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createPaper(t, s, models.Paper{Filename: strptr("consensus.pdf"), Title: strptr("Consensus")},
		[]string{"ml", "systems"}, []models.Label{{Key: "year", Value: "2022"}}, []string{"Ada"})
	b := createPaper(t, s, models.Paper{Filename: strptr("raft.pdf"), Title: strptr("Raft")},
		[]string{"systems"}, []models.Label{{Key: "year", Value: "2023"}}, []string{"Grace"})
	c := createPaper(t, s, models.Paper{Filename: strptr("attention.pdf"), Title: strptr("Attention")},
		[]string{"ml"}, nil, []string{"Ada"})

	tests := []struct {
		name   string
		filter ListFilter
		want   []uint
	}{
		{"no filter", ListFilter{}, []uint{a, b, c}},
		{"single tag", ListFilter{Tags: []string{"ml"}}, []uint{a, c}},
		{"tag intersection", ListFilter{Tags: []string{"ml", "systems"}}, []uint{a}},
		{"label", ListFilter{Labels: []models.Label{{Key: "year", Value: "2023"}}}, []uint{b}},
		{"author", ListFilter{Authors: []string{"Ada"}}, []uint{a, c}},
		{"filename substring", ListFilter{File: "raft"}, []uint{b}},
		{"title substring case-insensitive", ListFilter{Title: "ATTENTION"}, []uint{c}},
		{"ids", ListFilter{IDs: []uint{a, b}}, []uint{a, b}},
		{"no match", ListFilter{Tags: []string{"bio"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			papers, err := s.ListPapers(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListPapers: %v", err)
			}
			got := make([]uint, 0, len(papers))
			for _, p := range papers {
				got = append(got, p.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSearchPapers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	byTitle := createPaper(t, s, models.Paper{Filename: strptr("a.pdf"), Title: strptr("Deep Learning")}, nil, nil, nil)
	byTag := createPaper(t, s, models.Paper{Filename: strptr("b.pdf")}, []string{"deepdive"}, nil, nil)
	byLabel := createPaper(t, s, models.Paper{Filename: strptr("c.pdf")}, nil,
		[]models.Label{{Key: "topic", Value: "deep nets"}}, nil)
	byURL := createPaper(t, s, models.Paper{URL: strptr("https://example.com/DEEP.pdf")}, nil, nil, nil)
	other := createPaper(t, s, models.Paper{Filename: strptr("shallow.pdf"), Title: strptr("Shallow")}, nil, nil, nil)

	byNote := createPaper(t, s, models.Paper{Filename: strptr("d.pdf")}, nil, nil, nil)
	if err := s.SetNote(ctx, byNote, "a deep dive into queues"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	deleted := createPaper(t, s, models.Paper{Filename: strptr("deep-old.pdf")}, nil, nil, nil)
	if err := s.SoftDeletePaper(ctx, deleted); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}

	papers, err := s.SearchPapers(ctx, "DeEp")
	if err != nil {
		t.Fatalf("SearchPapers: %v", err)
	}
	got := map[uint]bool{}
	for _, p := range papers {
		got[p.ID] = true
	}
	for _, want := range []uint{byTitle, byTag, byLabel, byURL, byNote} {
		if !got[want] {
			t.Errorf("paper %d missing from results %v", want, papers)
		}
	}
	if got[other] {
		t.Error("near-miss paper matched")
	}
	if got[deleted] {
		t.Error("soft-deleted paper matched")
	}
	for i := 1; i < len(papers); i++ {
		if papers[i-1].ID >= papers[i].ID {
			t.Errorf("results not ordered by id: %v", papers)
		}
	}
}

func TestSearchEscapesWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	literal := createPaper(t, s, models.Paper{Filename: strptr("100%.pdf")}, nil, nil, nil)
	createPaper(t, s, models.Paper{Filename: strptr("100x.pdf")}, nil, nil, nil)

	papers, err := s.SearchPapers(ctx, "100%")
	if err != nil {
		t.Fatalf("SearchPapers: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != literal {
		t.Errorf("wildcard not treated literally: %v", papers)
	}
}

func TestSearchNonASCIIMatchesExactly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("a.pdf"), Title: strptr("Étude of Queues")}, nil, nil, nil)

	// Case folding is ASCII-only on both sides: the accented character
	// must survive pattern building and match itself.
	papers, err := s.SearchPapers(ctx, "Étude")
	if err != nil {
		t.Fatalf("SearchPapers: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != id {
		t.Fatalf("exact accent search = %v, want paper %d", papers, id)
	}

	// ASCII letters in the same query still fold.
	papers, err = s.SearchPapers(ctx, "Étude OF QUEUES")
	if err != nil {
		t.Fatalf("SearchPapers: %v", err)
	}
	if len(papers) != 1 {
		t.Errorf("mixed-case search = %v, want one match", papers)
	}
}

func TestUpdatePaper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{
		URL:      strptr("https://example.com/p.pdf"),
		Filename: strptr("p.pdf"),
		Title:    strptr("old"),
	}, nil, nil, nil)

	// Nil keeps, non-empty replaces, empty clears.
	err := s.UpdatePaper(ctx, id, models.PaperUpdate{
		Title: strptr("new"),
		URL:   strptr(""),
	})
	if err != nil {
		t.Fatalf("UpdatePaper: %v", err)
	}
	got, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if got.Title == nil || *got.Title != "new" {
		t.Errorf("title = %v, want new", got.Title)
	}
	if got.URL != nil {
		t.Errorf("url = %v, want cleared", got.URL)
	}
	if got.Filename == nil || *got.Filename != "p.pdf" {
		t.Errorf("filename = %v, want kept", got.Filename)
	}

	// Clearing the last source is rejected.
	err = s.UpdatePaper(ctx, id, models.PaperUpdate{Filename: strptr("")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("clearing last source: got %v, want ErrInvalidInput", err)
	}
	got, err = s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if got.Filename == nil {
		t.Error("rejected update still cleared filename")
	}

	if err := s.UpdatePaper(ctx, id+100, models.PaperUpdate{Title: strptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePaper missing: got %v, want ErrNotFound", err)
	}
}

func TestUpdateSoftDeletedNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil, nil, nil)
	if err := s.SoftDeletePaper(ctx, id); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}
	if err := s.UpdatePaper(ctx, id, models.PaperUpdate{Title: strptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePaper soft-deleted: got %v, want ErrNotFound", err)
	}
}

func TestChildWriteTouchesModified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil, nil, nil)
	before, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := s.AttachTags(ctx, id, []string{"ml"}); err != nil {
		t.Fatalf("AttachTags: %v", err)
	}

	after, err := s.GetPaper(ctx, id, false)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if !after.ModifiedAt.After(before.ModifiedAt) {
		t.Errorf("modified_at not advanced: before=%v after=%v", before.ModifiedAt, after.ModifiedAt)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("created_at changed: before=%v after=%v", before.CreatedAt, after.CreatedAt)
	}
}

func TestChildWriteOnSoftDeletedPaper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil, nil, nil)
	if err := s.SoftDeletePaper(ctx, id); err != nil {
		t.Fatalf("SoftDeletePaper: %v", err)
	}

	// The row still exists, so child writes keep working.
	if err := s.AttachTags(ctx, id, []string{"archived"}); err != nil {
		t.Errorf("AttachTags on soft-deleted paper: %v", err)
	}
	if err := s.AttachTags(ctx, id+100, []string{"x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AttachTags on missing paper: got %v, want ErrNotFound", err)
	}
}

func TestNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := createPaper(t, s, models.Paper{Filename: strptr("p.pdf")}, nil, nil, nil)

	// First access creates an empty note.
	note, err := s.GetNote(ctx, id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Content != "" {
		t.Errorf("fresh note content = %q, want empty", note.Content)
	}

	if err := s.SetNote(ctx, id, "first draft"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if err := s.SetNote(ctx, id, "second draft"); err != nil {
		t.Fatalf("SetNote (overwrite): %v", err)
	}

	note, err = s.GetNote(ctx, id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Content != "second draft" {
		t.Errorf("content = %q, want second draft", note.Content)
	}

	var count int64
	if err := s.db.Table("notes").Where("paper_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count != 1 {
		t.Errorf("notes rows = %d, want 1", count)
	}

	if _, err := s.GetNote(ctx, id+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNote missing paper: got %v, want ErrNotFound", err)
	}
}
