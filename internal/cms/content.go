// Package cms serves the store's static content pages (shipping policy,
// about, promo copy) from local markdown files with YAML front matter.
package cms

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates no content file exists for the slug.
var ErrNotFound = errors.New("cms: page not found")

// Page is a rendered content page. Body is sanitized HTML.
type Page struct {
	Slug      string
	Title     string
	Summary   string
	Body      string
	UpdatedAt time.Time
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	UpdatedAt string `yaml:"updated_at"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Store loads and caches pages from a content directory. Files are read once
// per slug; the store is safe for concurrent use.
type Store struct {
	dir      string
	mu       sync.RWMutex
	cache    map[string]Page
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewStore constructs a Store rooted at dir.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "content"
	}
	return &Store{
		dir:      dir,
		cache:    make(map[string]Page),
		markdown: goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Page returns the rendered page for the slug.
func (s *Store) Page(slug string) (Page, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return Page{}, ErrNotFound
	}

	s.mu.RLock()
	page, ok := s.cache[slug]
	s.mu.RUnlock()
	if ok {
		return page, nil
	}

	page, err := s.load(slug)
	if err != nil {
		return Page{}, err
	}

	s.mu.Lock()
	s.cache[slug] = page
	s.mu.Unlock()
	return page, nil
}

func (s *Store) load(slug string) (Page, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, slug+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return Page{}, ErrNotFound
		}
		return Page{}, fmt.Errorf("cms: read %s: %w", slug, err)
	}

	meta, body := splitFrontMatter(raw)

	var fm frontMatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter for %s: %w", slug, err)
		}
	}

	var rendered bytes.Buffer
	if err := s.markdown.Convert(body, &rendered); err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", slug, err)
	}

	page := Page{
		Slug:      slug,
		Title:     strings.TrimSpace(fm.Title),
		Summary:   strings.TrimSpace(fm.Summary),
		Body:      s.policy.Sanitize(rendered.String()),
		UpdatedAt: parseDate(fm.UpdatedAt),
	}
	if page.Title == "" {
		page.Title = titleFromSlug(slug)
	}
	return page, nil
}

// splitFrontMatter separates an optional leading "---" YAML block from the
// markdown body.
func splitFrontMatter(raw []byte) (meta, body []byte) {
	const delim = "---"
	text := string(raw)
	if !strings.HasPrefix(text, delim) {
		return nil, raw
	}
	rest := text[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, raw
	}
	meta = []byte(rest[:idx])
	body = []byte(strings.TrimPrefix(rest[idx+1+len(delim):], "\n"))
	return meta, body
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func parseDate(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
