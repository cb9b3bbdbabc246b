package models

import (
	"fmt"
	"strings"
	"unicode"
)

// Tag is a free-form classification string attached to a paper. A given
// tag string attaches at most once per paper.
type Tag struct {
	PaperID uint   `gorm:"primaryKey;autoIncrement:false" json:"-" yaml:"-"`
	Tag     string `gorm:"primaryKey;type:text" json:"tag" yaml:"tag"`
}

// ParseTag validates and normalizes a tag string. Tags are trimmed and
// must not contain whitespace.
func ParseTag(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("tag is empty")
	}
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return "", fmt.Errorf("tag %q contains whitespace", s)
	}
	return s, nil
}

// ParseTags parses a list of tag strings, deduplicating while preserving
// first-seen order.
func ParseTags(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		tag, err := ParseTag(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}
