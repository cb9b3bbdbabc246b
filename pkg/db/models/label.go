package models

import (
	"fmt"
	"strings"
	"unicode"
)

// Label is a key/value metadata pair attached to a paper. The schema keeps
// at most one value per key per paper; setting an existing key overwrites
// its value.
type Label struct {
	PaperID uint   `gorm:"primaryKey;autoIncrement:false" json:"-" yaml:"-"`
	Key     string `gorm:"primaryKey;column:label_key;type:text" json:"key" yaml:"key"`
	Value   string `gorm:"column:label_value;type:text;not null" json:"value" yaml:"value"`
}

func (l Label) String() string {
	return fmt.Sprintf("%s=%s", l.Key, l.Value)
}

// ParseLabel parses a `key=value` pair. Keys and values are trimmed and
// must not contain whitespace.
func ParseLabel(s string) (Label, error) {
	parts := strings.Split(s, "=")
	if len(parts) < 2 {
		return Label{}, fmt.Errorf("label %q missing value, should be of the form key=value", s)
	}
	if len(parts) > 2 {
		return Label{}, fmt.Errorf("label %q has too many '=', should be of the form key=value", s)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return Label{}, fmt.Errorf("label %q has an empty key", s)
	}
	if strings.ContainsFunc(key, unicode.IsSpace) {
		return Label{}, fmt.Errorf("label key %q contains whitespace", key)
	}
	if strings.ContainsFunc(value, unicode.IsSpace) {
		return Label{}, fmt.Errorf("label value %q contains whitespace", value)
	}
	return Label{Key: key, Value: value}, nil
}

// ParseLabels parses a list of `key=value` pairs. A key repeated later in
// the list overwrites the earlier value.
func ParseLabels(in []string) ([]Label, error) {
	byKey := make(map[string]int, len(in))
	out := make([]Label, 0, len(in))
	for _, s := range in {
		label, err := ParseLabel(s)
		if err != nil {
			return nil, err
		}
		if i, ok := byKey[label.Key]; ok {
			out[i] = label
			continue
		}
		byKey[label.Key] = len(out)
		out = append(out, label)
	}
	return out, nil
}
