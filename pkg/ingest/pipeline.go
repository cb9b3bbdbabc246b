package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"papers/pkg/db/models"
	"papers/pkg/db/store"
	"papers/pkg/log"
)

var (
	// ErrConflict marks a fetch whose destination file already exists in
	// the repository root. Existing files are never overwritten.
	ErrConflict = errors.New("destination file already exists")

	// ErrTransport marks a failed http fetch: connection errors, non-2xx
	// responses, or a broken body stream.
	ErrTransport = errors.New("fetch failed")
)

// userAgent identifies the tool on outgoing fetches.
const userAgent = "papers-cli"

// Options carries the metadata attached to every ingested paper. An empty
// Title or Authors is filled from the document's pdf info dictionary when
// it has one.
type Options struct {
	Title   string
	Tags    []string
	Labels  []models.Label
	Authors []string
}

// Result is the per-item outcome of a batch ingestion.
type Result struct {
	Source   Source
	PaperID  uint
	Filename string
	Err      error
}

// Failed reports whether this item was not ingested.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Pipeline turns urls or local paths into stored papers: acquire content
// into the repository root, then record the paper with its tags, labels
// and authors in one transaction.
type Pipeline struct {
	store  store.PaperStore
	root   string
	client *http.Client
	log    log.LoggerService
}

// New creates a pipeline writing into the given repository root.
func New(st store.PaperStore, root string, logger log.LoggerService) *Pipeline {
	return &Pipeline{
		store:  st,
		root:   root,
		client: http.DefaultClient,
		log:    logger,
	}
}

// WithClient replaces the http client used for fetches.
func (p *Pipeline) WithClient(client *http.Client) *Pipeline {
	p.client = client
	return p
}

// Run processes each source independently: one item's failure never rolls
// back or blocks the others. The returned slice holds one result per
// source, in input order.
func (p *Pipeline) Run(ctx context.Context, sources []Source, opts Options) []Result {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		result := p.ingest(ctx, src, opts)
		if result.Failed() {
			p.log.Warn("Failed to add %s: %v", src, result.Err)
		} else {
			p.log.Info("Added paper %d (%s)", result.PaperID, result.Filename)
		}
		results = append(results, result)
	}
	return results
}

// Failures counts the failed items in a batch result.
func Failures(results []Result) int {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	return failed
}

func (p *Pipeline) ingest(ctx context.Context, src Source, opts Options) Result {
	result := Result{Source: src}

	var paper models.Paper
	var localPath string
	switch src.Kind {
	case SourceURL:
		filename, err := p.fetch(ctx, src.URL)
		if err != nil {
			result.Err = err
			return result
		}
		rawURL := src.URL.String()
		paper.URL = &rawURL
		paper.Filename = &filename
		localPath = filepath.Join(p.root, filename)

	case SourcePath:
		relative, err := p.resolvePath(src.Path)
		if err != nil {
			result.Err = err
			return result
		}
		paper.Filename = &relative
		localPath = filepath.Join(p.root, filepath.FromSlash(relative))
	}

	title := opts.Title
	authors := opts.Authors
	if title == "" || len(authors) == 0 {
		metaTitle, metaAuthors := documentInfo(localPath)
		if title == "" {
			if metaTitle == "" {
				p.log.Debug("No title in the pdf metadata of %s", localPath)
			}
			title = metaTitle
		}
		if len(authors) == 0 {
			authors = metaAuthors
		}
	}
	if title != "" {
		paper.Title = &title
	}

	if err := p.store.CreatePaper(ctx, &paper, opts.Tags, opts.Labels, authors); err != nil {
		result.Err = err
		return result
	}

	result.PaperID = paper.ID
	if paper.Filename != nil {
		result.Filename = *paper.Filename
	}
	return result
}

// fetch performs the single GET-and-save: stream the response body into a
// deterministically named file in the repository root. The destination is
// created exclusively; an existing file is a conflict, not an overwrite.
func (p *Pipeline) fetch(ctx context.Context, u *url.URL) (string, error) {
	filename := DestinationFilename(u)
	dest := filepath.Join(p.root, filename)

	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrConflict, filename)
		}
		return "", fmt.Errorf("failed to create %s: %w", filename, err)
	}

	p.log.Debug("Fetching %s to %s", u, filename)
	if err := p.download(ctx, u, file); err != nil {
		file.Close()
		os.Remove(dest)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

func (p *Pipeline) download(ctx context.Context, u *url.URL, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s: %s", ErrTransport, u, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
		p.log.Warn("Fetched %s is %s, not a pdf; it may need authorisation", u, ct)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, u, err)
	}
	return nil
}

func (p *Pipeline) resolvePath(raw string) (string, error) {
	return RelativeToRoot(p.root, raw)
}

// RelativeToRoot validates a local file and returns its path relative to
// the repository root. Files outside the root are rejected.
func RelativeToRoot(root, raw string) (string, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", raw, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", raw, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", raw, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", raw)
	}

	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolvedRoot = root
	}
	relative, err := filepath.Rel(resolvedRoot, abs)
	if err != nil || relative == ".." || filepath.IsAbs(relative) ||
		len(relative) >= 3 && relative[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("%s does not live in the repository root %s", raw, root)
	}
	return filepath.ToSlash(relative), nil
}
