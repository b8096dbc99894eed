// Package lexicon provides best-effort vocabulary hints organized by age
// band and goal. Missing files or directories yield empty results, never
// errors: hint words are decoration, not load-bearing data.
package lexicon

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Reference looks up optional hint words from a directory tree of word
// lists. Files are searched at <band>/<goal>/words.txt, <band>/words.txt
// and <goal>/words.txt, in that order, with order-preserving dedupe.
type Reference struct {
	basePath string

	mu    sync.Mutex
	cache map[string][]string
}

// NewReference creates a lexicon rooted at basePath. An empty basePath is
// valid and yields no words.
func NewReference(basePath string) *Reference {
	return &Reference{
		basePath: basePath,
		cache:    make(map[string][]string),
	}
}

// WordsFor returns the deduplicated word list for an age band/goal
// combination. Results are cached for the lifetime of the process.
func (r *Reference) WordsFor(ageBand, goal string) []string {
	key := ageBand + "|" + goal

	r.mu.Lock()
	defer r.mu.Unlock()

	if words, ok := r.cache[key]; ok {
		return words
	}

	var collected []string
	if r.basePath != "" {
		candidates := []string{
			filepath.Join(r.basePath, ageBand, goal, "words.txt"),
			filepath.Join(r.basePath, ageBand, "words.txt"),
			filepath.Join(r.basePath, goal, "words.txt"),
		}
		for _, path := range candidates {
			collected = append(collected, readWords(path)...)
		}
	}

	seen := make(map[string]struct{}, len(collected))
	unique := make([]string, 0, len(collected))
	for _, word := range collected {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		unique = append(unique, word)
	}

	r.cache[key] = unique
	return unique
}

// Sample returns up to limit hint words for the combination.
func (r *Reference) Sample(ageBand, goal string, limit int) []string {
	words := r.WordsFor(ageBand, goal)
	if limit < 0 {
		limit = 0
	}
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// readWords reads one word per line, skipping blanks and # comments.
// A missing or unreadable file yields no words.
func readWords(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() {
		_ = f.Close()
	}()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		words = append(words, entry)
	}
	return words
}
