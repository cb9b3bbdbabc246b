package ingest

import (
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// documentInfo reads the title and author list from a pdf's info
// dictionary. Files that are not parseable pdfs or carry no info dict
// yield empty results; extraction never fails an ingestion.
func documentInfo(path string) (title string, authors []string) {
	// The pdf reader panics on some malformed files.
	defer func() { _ = recover() }()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", nil
	}
	defer file.Close()

	info := reader.Trailer().Key("Info")
	title = strings.TrimSpace(info.Key("Title").Text())
	authors = splitAuthorNames(info.Key("Author").Text())
	return title, authors
}

// splitAuthorNames breaks an info-dict author string into names. Letters,
// digits, whitespace and full stops belong to a name (e.g. "First M.
// Last"); any other character separates one name from the next.
func splitAuthorNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '.'
	})

	var names []string
	for _, field := range fields {
		if name := strings.TrimSpace(field); name != "" {
			names = append(names, name)
		}
	}
	return names
}
