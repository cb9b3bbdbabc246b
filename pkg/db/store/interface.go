package store

import (
	"context"

	"papers/pkg/db/models"
)

// ListFilter narrows a paper listing. All clauses combine with AND; the
// tag, label and author clauses require every given value to be attached
// (intersection semantics). File and title match as substrings,
// case-insensitively for ASCII.
type ListFilter struct {
	IDs            []uint
	File           string
	Title          string
	Tags           []string
	Labels         []models.Label
	Authors        []string
	IncludeDeleted bool
}

// PaperStore defines the interface for database operations. It is the
// only component that reads or writes paper rows and their children, and
// it is responsible for the invariants the schema alone cannot enforce:
// every paper references a url or a file, multi-row writes are atomic,
// and child mutations touch the parent's modified_at.
type PaperStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Paper operations
	CreatePaper(ctx context.Context, paper *models.Paper, tags []string, labels []models.Label, authors []string) error
	GetPaper(ctx context.Context, id uint, includeDeleted bool) (*models.Paper, error)
	ListPapers(ctx context.Context, filter ListFilter) ([]models.Paper, error)
	SearchPapers(ctx context.Context, substring string) ([]models.Paper, error)
	UpdatePaper(ctx context.Context, id uint, update models.PaperUpdate) error
	SoftDeletePaper(ctx context.Context, id uint) error
	HardDeletePaper(ctx context.Context, id uint) error

	// Tag operations
	AttachTags(ctx context.Context, id uint, tags []string) error
	RemoveTags(ctx context.Context, id uint, tags []string) error

	// Label operations
	SetLabel(ctx context.Context, id uint, label models.Label) error
	RemoveLabel(ctx context.Context, id uint, key string) error

	// Author operations
	AttachAuthors(ctx context.Context, id uint, authors []string) error
	RemoveAuthors(ctx context.Context, id uint, authors []string) error

	// Note operations
	GetNote(ctx context.Context, paperID uint) (*models.Note, error)
	SetNote(ctx context.Context, paperID uint, content string) error
}
