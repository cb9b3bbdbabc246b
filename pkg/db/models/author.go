package models

import (
	"fmt"
	"strings"
)

// Author is an author name attached to a paper, unique per paper.
type Author struct {
	PaperID uint   `gorm:"primaryKey;autoIncrement:false" json:"-" yaml:"-"`
	Author  string `gorm:"primaryKey;type:text" json:"author" yaml:"author"`
}

// ParseAuthor trims an author name. Unlike tags, author names may contain
// whitespace (e.g. "First M. Last").
func ParseAuthor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("author is empty")
	}
	return s, nil
}

// ParseAuthors parses a list of author names, deduplicating while
// preserving first-seen order.
func ParseAuthors(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		author, err := ParseAuthor(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[author]; ok {
			continue
		}
		seen[author] = struct{}{}
		out = append(out, author)
	}
	return out, nil
}
