// Package docindex provides an in-memory TF-IDF index over tender
// document text.
//
// The index is session-scoped: callers add each parsed document under a
// stable id (usually the filename), search with free-text queries, and
// throw the whole index away when the session ends. Nothing is persisted.
package docindex

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

const (
	// defaultLimit caps Search results when the caller passes limit <= 0.
	defaultLimit = 10

	// snippetMaxLen is the longest snippet returned, in runes.
	snippetMaxLen = 200

	// minSentenceLen skips sentence fragments too short to make a
	// useful snippet.
	minSentenceLen = 10
)

// Result is one search hit.
type Result struct {
	DocID   string  `json:"document"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Index is a thread-safe in-memory TF-IDF document index.
type Index struct {
	mu       sync.Mutex
	docs     map[string]string
	termFreq map[string]map[string]int // doc id -> term -> occurrences
	tokens   map[string]int            // doc id -> total token count
	docFreq  map[string]int            // term -> docs containing it
}

// New returns an empty index.
func New() *Index {
	return &Index{
		docs:     make(map[string]string),
		termFreq: make(map[string]map[string]int),
		tokens:   make(map[string]int),
		docFreq:  make(map[string]int),
	}
}

// Add indexes content under id. Re-adding an existing id replaces the
// previous content.
func (ix *Index) Add(id, content string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.docs[id]; ok {
		ix.removeLocked(id)
	}

	words := tokenize(content)
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	for w := range freq {
		ix.docFreq[w]++
	}

	ix.docs[id] = content
	ix.termFreq[id] = freq
	ix.tokens[id] = len(words)
}

// Remove drops a document from the index. Unknown ids are ignored.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(id)
}

func (ix *Index) removeLocked(id string) {
	if _, ok := ix.docs[id]; !ok {
		return
	}
	for w := range ix.termFreq[id] {
		ix.docFreq[w]--
		if ix.docFreq[w] <= 0 {
			delete(ix.docFreq, w)
		}
	}
	delete(ix.docs, id)
	delete(ix.termFreq, id)
	delete(ix.tokens, id)
}

// Len reports how many documents are indexed.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.docs)
}

// Search scores every indexed document against the query and returns the
// top hits, best first. Ties break on doc id so results are stable across
// runs. A limit <= 0 means the default of 10.
func (ix *Index) Search(query string, limit int) []Result {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if limit <= 0 {
		limit = defaultLimit
	}
	if len(ix.docs) == 0 {
		return nil
	}
	queryWords := tokenize(query)
	if len(queryWords) == 0 {
		return nil
	}

	results := make([]Result, 0, len(ix.docs))
	for id, content := range ix.docs {
		score := ix.scoreLocked(id, queryWords)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			DocID:   id,
			Score:   score,
			Snippet: snippet(content, queryWords),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		delta := results[i].Score - results[j].Score
		if math.Abs(delta) <= 1e-12 {
			return results[i].DocID < results[j].DocID
		}
		return delta > 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreLocked sums tf*idf over the query words. Repeated query words
// contribute once per occurrence in the query.
func (ix *Index) scoreLocked(id string, queryWords []string) float64 {
	freq := ix.termFreq[id]
	total := ix.tokens[id]
	if len(freq) == 0 || total == 0 {
		return 0
	}

	score := 0.0
	for _, w := range queryWords {
		n, ok := freq[w]
		if !ok {
			continue
		}
		df := ix.docFreq[w]
		if df == 0 {
			continue
		}
		tf := float64(n) / float64(total)
		idf := math.Log(float64(len(ix.docs)) / float64(df))
		score += tf * idf
	}
	return score
}

var (
	wordRE     = regexp.MustCompile(`\b[a-z]+\b`)
	sentenceRE = regexp.MustCompile(`[.!?]+`)

	stopwords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
		"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
		"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	}
)

// tokenize lowercases text and returns the alphabetic words longer than
// two characters that are not stopwords.
func tokenize(text string) []string {
	var words []string
	for _, w := range wordRE.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

// snippet returns the sentence with the most query-word hits, capped at
// snippetMaxLen runes. Documents where no sentence matches fall back to
// the document head.
func snippet(content string, queryWords []string) string {
	best := ""
	bestHits := 0
	for _, s := range sentenceRE.Split(content, -1) {
		s = strings.TrimSpace(s)
		if len(s) < minSentenceLen {
			continue
		}
		lower := strings.ToLower(s)
		hits := 0
		for _, w := range queryWords {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = s
		}
	}

	if best == "" {
		return capRunes(content, snippetMaxLen)
	}
	if r := []rune(best); len(r) > snippetMaxLen {
		return string(r[:snippetMaxLen]) + "..."
	}
	return best
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
