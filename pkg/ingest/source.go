package ingest

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// SourceKind classifies what an input string refers to.
type SourceKind int

const (
	// SourceURL is a remote http(s) resource to fetch.
	SourceURL SourceKind = iota
	// SourcePath is a file already on disk.
	SourcePath
)

// Source is a classified ingestion input: a url to fetch or a local path.
type Source struct {
	Kind SourceKind
	URL  *url.URL
	Path string

	raw string
}

func (s Source) String() string {
	return s.raw
}

// ParseSource classifies an input string. Anything with an http or https
// scheme is a url; everything else is treated as a filesystem path.
func ParseSource(s string) (Source, error) {
	if strings.TrimSpace(s) == "" {
		return Source{}, fmt.Errorf("empty source")
	}
	if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "" {
			return Source{}, fmt.Errorf("url %q has no host", s)
		}
		return Source{Kind: SourceURL, URL: u, raw: s}, nil
	}
	return Source{Kind: SourcePath, Path: s, raw: s}, nil
}

// ParseSources classifies a list of input strings.
func ParseSources(in []string) ([]Source, error) {
	out := make([]Source, 0, len(in))
	for _, s := range in {
		src, err := ParseSource(s)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// Characters stripped from derived filenames. The set matches what common
// filesystems reject; dots are kept only for the extension.
const prohibitedFilenameChars = `/\?%*:|"<>.`

// DestinationFilename derives the stored filename for a fetched url: the
// final path segment with prohibited characters stripped, keeping the
// extension. Falls back to the host when the path yields nothing usable.
func DestinationFilename(u *url.URL) string {
	segment := ""
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segment = part
		}
	}

	ext := path.Ext(segment)
	base := sanitizeFilename(strings.TrimSuffix(segment, ext))
	ext = sanitizeFilename(ext)
	if ext != "" {
		ext = "." + ext
	}

	if base == "" {
		base = sanitizeFilename(u.Hostname())
	}
	if base == "" {
		base = "download"
	}
	return base + ext
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(prohibitedFilenameChars, r) {
			return -1
		}
		return r
	}, s)
}
