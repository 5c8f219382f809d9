package search

import (
	"math"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
)

// minQueryLen is the shortest query that is actually run.
const minQueryLen = 2

// New returns the bleve-backed index, or the plain scorer if bleve could not
// build its in-memory index.
func New() Index {
	idx, err := NewBleveEngine()
	if err != nil {
		debuglog.Warnf("search: bleve unavailable, using simple engine: %v", err)
		return NewEngine()
	}
	return idx
}

// Engine scores a snapshot of the lists without an index.
type Engine struct {
	mu        sync.RWMutex
	media     []download.MediaItem
	downloads []download.Download
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) IndexMedia(items []download.MediaItem) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.media = append([]download.MediaItem(nil), items...)
	return nil
}

func (e *Engine) IndexDownloads(downloads []download.Download) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.downloads = append([]download.Download(nil), downloads...)
	return nil
}

func (e *Engine) DocCount() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.media) + len(e.downloads), nil
}

// Search ranks media titles above download names on equal matches.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < minQueryLen {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []*Result

	for i := range e.media {
		item := e.media[i]
		title := humanTitle(item.Name())
		var matches []Match
		var total float64
		if s := scoreField(title, terms, 4.0); s > 0 {
			matches = append(matches, Match{Field: "title", Text: title, Weight: s})
			total += s
		}
		if s := scoreField(item.Path, terms, 1.0); s > 0 {
			matches = append(matches, Match{Field: "path", Text: truncate(item.Path, 120), Weight: s})
			total += s
		}
		if total > 0 {
			results = append(results, &Result{Media: &item, Score: total, Matches: matches})
		}
	}

	for i := range e.downloads {
		d := e.downloads[i]
		name := humanTitle(d.DisplayName())
		var matches []Match
		var total float64
		if s := scoreField(name, terms, 3.0); s > 0 {
			matches = append(matches, Match{Field: "name", Text: d.DisplayName(), Weight: s})
			total += s
		}
		if s := scoreField(string(d.Status), terms, 0.5); s > 0 {
			matches = append(matches, Match{Field: "status", Text: string(d.Status), Weight: s})
			total += s
		}
		if total > 0 {
			results = append(results, &Result{Download: &d, Score: total, Matches: matches})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize breaks text into lower-cased searchable terms
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}

	return terms
}

// humanTitle turns a release-style file name into words:
// "Big.Buck.Bunny.2008.mkv" becomes "Big Buck Bunny 2008".
func humanTitle(name string) string {
	if ext := filepath.Ext(name); ext != "" && len(ext) <= 5 {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '.', '_', '-', '[', ']', '(', ')':
			return ' '
		}
		return r
	}, name)
	return strings.Join(strings.Fields(name), " ")
}

func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-1]) + "…"
}
