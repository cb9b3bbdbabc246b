package models

import (
	"time"
)

// Paper is the aggregate record for one managed document. A paper always
// references something: a remote source url, a local file, or both.
type Paper struct {
	ID       uint    `gorm:"primaryKey" json:"id" yaml:"id"`
	URL      *string `gorm:"type:text" json:"url" yaml:"url"`
	Filename *string `gorm:"type:text" json:"filename" yaml:"filename"`
	Title    *string `gorm:"type:text" json:"title" yaml:"title"`

	// Soft-delete marker. Deleted papers are kept for audit/undo and are
	// excluded from default listings and search.
	Deleted bool `gorm:"not null;default:false" json:"deleted" yaml:"deleted"`

	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ModifiedAt time.Time `gorm:"autoUpdateTime:false" json:"modified_at" yaml:"modified_at"`

	// Relationships
	Tags    []Tag    `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"tags" yaml:"tags"`
	Labels  []Label  `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"labels" yaml:"labels"`
	Authors []Author `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"authors" yaml:"authors"`
	Note    *Note    `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-" yaml:"-"`
}

// HasSource reports whether the paper references a url or a local file.
func (p *Paper) HasSource() bool {
	return (p.URL != nil && *p.URL != "") || (p.Filename != nil && *p.Filename != "")
}

// TagStrings returns the attached tags as a plain string slice.
func (p *Paper) TagStrings() []string {
	out := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		out = append(out, t.Tag)
	}
	return out
}

// AuthorStrings returns the attached authors as a plain string slice.
func (p *Paper) AuthorStrings() []string {
	out := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		out = append(out, a.Author)
	}
	return out
}

// PaperUpdate describes a partial update to a paper. Nil fields are left
// unchanged; a pointer to the empty string clears the column.
type PaperUpdate struct {
	URL      *string
	Filename *string
	Title    *string
}

// Empty reports whether the update would change nothing.
func (u PaperUpdate) Empty() bool {
	return u.URL == nil && u.Filename == nil && u.Title == nil
}
