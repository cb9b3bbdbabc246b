package models

// Note holds the free-form notes for a paper. One note row per paper,
// created empty on first access.
type Note struct {
	ID      uint   `gorm:"primaryKey" json:"id" yaml:"id"`
	PaperID uint   `gorm:"not null;uniqueIndex" json:"-" yaml:"-"`
	Content string `gorm:"type:text;not null" json:"content" yaml:"content"`
}
