package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"papers/pkg/db/migrations"
	"papers/pkg/db/models"
)

// SQLiteStore implements PaperStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed paper store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// SQLite only supports 1 writer. Pinning the pool to a single
	// connection also keeps the pragma below effective for every query.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate brings the database to the latest schema version.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Paper operations

// CreatePaper inserts a paper and its initial tags, labels and authors in
// one transaction. Either everything commits or nothing does.
func (s *SQLiteStore) CreatePaper(ctx context.Context, paper *models.Paper, tags []string, labels []models.Label, authors []string) error {
	if !paper.HasSource() {
		return fmt.Errorf("%w: paper needs a url or a filename", ErrInvalidInput)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		paper.CreatedAt = now
		paper.ModifiedAt = now

		if err := tx.Create(paper).Error; err != nil {
			return fmt.Errorf("failed to insert paper: %w", err)
		}
		if err := insertTags(tx, paper.ID, tags); err != nil {
			return err
		}
		if err := upsertLabels(tx, paper.ID, labels); err != nil {
			return err
		}
		return insertAuthors(tx, paper.ID, authors)
	})
}

// GetPaper loads a paper with its tags, labels, authors and note.
// Soft-deleted papers are ErrNotFound unless includeDeleted is set.
func (s *SQLiteStore) GetPaper(ctx context.Context, id uint, includeDeleted bool) (*models.Paper, error) {
	query := s.db.WithContext(ctx).
		Preload("Tags").Preload("Labels").Preload("Authors").Preload("Note").
		Where("id = ?", id)
	if !includeDeleted {
		query = query.Where("deleted = ?", false)
	}

	var paper models.Paper
	if err := query.First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("paper %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load paper %d: %w", id, err)
	}
	return &paper, nil
}

// ListPapers returns papers matching the filter, ordered by id ascending.
func (s *SQLiteStore) ListPapers(ctx context.Context, filter ListFilter) ([]models.Paper, error) {
	query := s.db.WithContext(ctx).Model(&models.Paper{}).
		Preload("Tags").Preload("Labels").Preload("Authors").
		Order("papers.id ASC")

	if !filter.IncludeDeleted {
		query = query.Where("papers.deleted = ?", false)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("papers.id IN ?", filter.IDs)
	}
	if filter.File != "" {
		query = query.Where(`lower(papers.filename) LIKE ? ESCAPE '\'`, likePattern(filter.File))
	}
	if filter.Title != "" {
		query = query.Where(`lower(papers.title) LIKE ? ESCAPE '\'`, likePattern(filter.Title))
	}
	for _, tag := range filter.Tags {
		query = query.Where("EXISTS (SELECT 1 FROM tags WHERE tags.paper_id = papers.id AND tags.tag = ?)", tag)
	}
	for _, label := range filter.Labels {
		query = query.Where("EXISTS (SELECT 1 FROM labels WHERE labels.paper_id = papers.id AND labels.label_key = ? AND labels.label_value = ?)",
			label.Key, label.Value)
	}
	for _, author := range filter.Authors {
		query = query.Where("EXISTS (SELECT 1 FROM authors WHERE authors.paper_id = papers.id AND authors.author = ?)", author)
	}

	var papers []models.Paper
	if err := query.Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}
	return papers, nil
}

// SearchPapers returns non-deleted papers where title, url, filename, a
// tag, a label value or the note content contains the given substring.
// Matching is literal (LIKE wildcards in the query are escaped, not
// expanded) and case-insensitive for ASCII; non-ASCII characters match
// exactly. Results are ordered by id ascending.
func (s *SQLiteStore) SearchPapers(ctx context.Context, substring string) ([]models.Paper, error) {
	pattern := likePattern(substring)

	var papers []models.Paper
	err := s.db.WithContext(ctx).Model(&models.Paper{}).
		Preload("Tags").Preload("Labels").Preload("Authors").
		Where("papers.deleted = ?", false).
		Where(`lower(papers.title) LIKE ? ESCAPE '\'
			OR lower(papers.url) LIKE ? ESCAPE '\'
			OR lower(papers.filename) LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM tags WHERE tags.paper_id = papers.id AND lower(tags.tag) LIKE ? ESCAPE '\')
			OR EXISTS (SELECT 1 FROM labels WHERE labels.paper_id = papers.id AND lower(labels.label_value) LIKE ? ESCAPE '\')
			OR EXISTS (SELECT 1 FROM notes WHERE notes.paper_id = papers.id AND lower(notes.content) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern, pattern, pattern).
		Order("papers.id ASC").
		Find(&papers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search papers: %w", err)
	}
	return papers, nil
}

// UpdatePaper applies a partial update to a live paper. Nil fields keep
// their value, pointers to the empty string clear the column. The update
// must not leave the paper without a url and a filename.
func (s *SQLiteStore) UpdatePaper(ctx context.Context, id uint, update models.PaperUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paper models.Paper
		err := tx.Where("id = ? AND deleted = ?", id, false).First(&paper).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("paper %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load paper %d: %w", id, err)
		}

		updates := map[string]any{
			"modified_at": time.Now().UTC(),
		}
		apply := func(column string, value *string, field **string) {
			if value == nil {
				return
			}
			if *value == "" {
				updates[column] = nil
				*field = nil
			} else {
				updates[column] = *value
				*field = value
			}
		}
		apply("url", update.URL, &paper.URL)
		apply("filename", update.Filename, &paper.Filename)
		apply("title", update.Title, &paper.Title)

		if !paper.HasSource() {
			return fmt.Errorf("%w: update would leave paper %d without a url or a filename", ErrInvalidInput, id)
		}

		if err := tx.Model(&models.Paper{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update paper %d: %w", id, err)
		}
		return nil
	})
}

// SoftDeletePaper marks a paper deleted. Calling it on an already deleted
// paper is a no-op; only a missing row is an error.
func (s *SQLiteStore) SoftDeletePaper(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePaper(tx, id); err != nil {
			return err
		}
		err := tx.Model(&models.Paper{}).
			Where("id = ? AND deleted = ?", id, false).
			Updates(map[string]any{
				"deleted":     true,
				"modified_at": time.Now().UTC(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to soft-delete paper %d: %w", id, err)
		}
		return nil
	})
}

// HardDeletePaper removes a paper and all of its children. Children go
// first so the foreign keys hold at every point.
func (s *SQLiteStore) HardDeletePaper(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePaper(tx, id); err != nil {
			return err
		}
		for _, child := range []any{&models.Tag{}, &models.Label{}, &models.Author{}, &models.Note{}} {
			if err := tx.Where("paper_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete children of paper %d: %w", id, err)
			}
		}
		if err := tx.Delete(&models.Paper{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete paper %d: %w", id, err)
		}
		return nil
	})
}

// Tag operations

// AttachTags inserts tags idempotently: attaching an already attached tag
// is a no-op, not an error.
func (s *SQLiteStore) AttachTags(ctx context.Context, id uint, tags []string) error {
	return s.childWrite(ctx, id, func(tx *gorm.DB) error {
		return insertTags(tx, id, tags)
	})
}

// RemoveTags detaches the given tags from a paper.
func (s *SQLiteStore) RemoveTags(ctx context.Context, id uint, tags []string) error {
	return s.childWrite(ctx, id, func(tx *gorm.DB) error {
		if len(tags) == 0 {
			return nil
		}
		if err := tx.Where("paper_id = ? AND tag IN ?", id, tags).Delete(&models.Tag{}).Error; err != nil {
			return fmt.Errorf("failed to remove tags from paper %d: %w", id, err)
		}
		return nil
	})
}

// Label operations

// SetLabel upserts a label: one value per key per paper, a later set
// overwrites the earlier value.
func (s *SQLiteStore) SetLabel(ctx context.Context, id uint, label models.Label) error {
	return s.childWrite(ctx, id, func(tx *gorm.DB) error {
		return upsertLabels(tx, id, []models.Label{label})
	})
}

// RemoveLabel detaches the label with the given key from a paper.
func (s *SQLiteStore) RemoveLabel(ctx context.Context, id uint, key string) error {
	return s.childWrite(ctx, id, func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ? AND label_key = ?", id, key).Delete(&models.Label{}).Error; err != nil {
			return fmt.Errorf("failed to remove label from paper %d: %w", id, err)
		}
		return nil
	})
}

// Author operations

// AttachAuthors inserts authors with the same idempotent semantics as tags.
func (s *SQLiteStore) AttachAuthors(ctx context.Context, id uint, authors []string) error {
	return s.childWrite(ctx, id, func(tx *gorm.DB) error {
		return insertAuthors(tx, id, authors)
	})
}

// RemoveAuthors detaches the given authors from a paper.
func (s *SQLiteStore) RemoveAuthors(ctx context.Context, id uint, authors []string) error {
	return s.childWrite(ctx, id, func(tx *gorm.DB) error {
		if len(authors) == 0 {
			return nil
		}
		if err := tx.Where("paper_id = ? AND author IN ?", id, authors).Delete(&models.Author{}).Error; err != nil {
			return fmt.Errorf("failed to remove authors from paper %d: %w", id, err)
		}
		return nil
	})
}

// Note operations

// GetNote returns the note for a paper, creating an empty one on first
// access.
func (s *SQLiteStore) GetNote(ctx context.Context, paperID uint) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePaper(tx, paperID); err != nil {
			return err
		}
		err := tx.Where("paper_id = ?", paperID).First(&note).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load note for paper %d: %w", paperID, err)
		}
		note = models.Note{PaperID: paperID}
		if err := tx.Create(&note).Error; err != nil {
			return fmt.Errorf("failed to create note for paper %d: %w", paperID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// SetNote upserts the note content for a paper.
func (s *SQLiteStore) SetNote(ctx context.Context, paperID uint, content string) error {
	return s.childWrite(ctx, paperID, func(tx *gorm.DB) error {
		note := models.Note{PaperID: paperID, Content: content}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paper_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content"}),
		}).Create(&note).Error
		if err != nil {
			return fmt.Errorf("failed to set note for paper %d: %w", paperID, err)
		}
		return nil
	})
}

// Helpers

// childWrite runs a child-table mutation and the parent modified_at touch
// in one transaction. The paper row must exist but may be soft-deleted:
// children persist alongside a soft-deleted paper.
func (s *SQLiteStore) childWrite(ctx context.Context, id uint, write func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePaper(tx, id); err != nil {
			return err
		}
		if err := write(tx); err != nil {
			return err
		}
		return touchModified(tx, id)
	})
}

func requirePaper(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Paper{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check paper %d: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	return nil
}

func touchModified(tx *gorm.DB, id uint) error {
	err := tx.Model(&models.Paper{}).Where("id = ?", id).
		Update("modified_at", time.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("failed to touch paper %d: %w", id, err)
	}
	return nil
}

func insertTags(tx *gorm.DB, id uint, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]models.Tag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.Tag{PaperID: id, Tag: tag})
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to insert tags for paper %d: %w", id, err)
	}
	return nil
}

func upsertLabels(tx *gorm.DB, id uint, labels []models.Label) error {
	if len(labels) == 0 {
		return nil
	}
	rows := make([]models.Label, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, models.Label{PaperID: id, Key: label.Key, Value: label.Value})
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "paper_id"}, {Name: "label_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"label_value"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert labels for paper %d: %w", id, err)
	}
	return nil
}

func insertAuthors(tx *gorm.DB, id uint, authors []string) error {
	if len(authors) == 0 {
		return nil
	}
	rows := make([]models.Author, 0, len(authors))
	for _, author := range authors {
		rows = append(rows, models.Author{PaperID: id, Author: author})
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to insert authors for paper %d: %w", id, err)
	}
	return nil
}

// likePattern builds a LIKE pattern that matches the given text
// literally: LIKE wildcards in the input are escaped. Case folding is
// ASCII-only on both sides, matching SQLite's built-in lower(); non-ASCII
// characters match exactly.
func likePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(asciiLower(s)) + "%"
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
