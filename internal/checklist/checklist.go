// Package checklist turns raw tender document text into a categorized,
// prioritized submission checklist.
//
// Synthesis is pure text analysis: no stored company data is consulted.
// Requirement sentences are pulled out with modal-verb patterns, deadlines
// with keyword/date pair patterns, and each of the eight fixed categories
// is gated behind its own keyword list so irrelevant categories never
// appear in the output. The result serializes to stable snake_case JSON
// for save/load by UI consumers.
package checklist

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tenderbase/tenderbase/internal/extract"
)

// Checklist is the full synthesized output for one document.
type Checklist struct {
	Title       string               `json:"title" yaml:"title"`
	GeneratedAt time.Time            `json:"generated_date" yaml:"generated_date"`
	Categories  map[string]*Category `json:"categories" yaml:"categories"`
	Summary     Summary              `json:"summary" yaml:"summary"`
	Estimate    Estimate             `json:"estimated_completion_time" yaml:"estimated_completion_time"`
	Deadlines   []Deadline           `json:"critical_deadlines" yaml:"critical_deadlines"`
}

// Category groups the checklist items generated for one category name.
type Category struct {
	Items     []Item `json:"items" yaml:"items"`
	Completed int    `json:"completed" yaml:"completed"`
	Total     int    `json:"total" yaml:"total"`
	Priority  string `json:"priority" yaml:"priority"`
}

// Item is a single actionable task. Completed, Notes and Attachments are
// owned by the consumer; synthesis always emits them zeroed.
type Item struct {
	ID             string   `json:"id" yaml:"id"`
	Text           string   `json:"text" yaml:"text"`
	Completed      bool     `json:"completed" yaml:"completed"`
	Priority       string   `json:"priority" yaml:"priority"`
	EstimatedHours int      `json:"estimated_hours" yaml:"estimated_hours"`
	Notes          string   `json:"notes" yaml:"notes"`
	Attachments    []string `json:"attachments" yaml:"attachments"`
}

// Summary carries document-level analysis metrics.
type Summary struct {
	WordCount         int      `json:"word_count" yaml:"word_count"`
	SentenceCount     int      `json:"sentence_count" yaml:"sentence_count"`
	ComplexityScore   float64  `json:"complexity_score" yaml:"complexity_score"`
	KeySections       []string `json:"key_sections" yaml:"key_sections"`
	DocumentType      string   `json:"document_type" yaml:"document_type"`
	IsOCRContent      bool     `json:"is_ocr_content" yaml:"is_ocr_content"`
	RequirementsFound int      `json:"requirements_found" yaml:"requirements_found"`
}

// Estimate is the projected effort to work through the checklist.
type Estimate struct {
	TotalHours    int `json:"total_hours" yaml:"total_hours"`
	EstimatedDays int `json:"estimated_days" yaml:"estimated_days"`
}

// Deadline is one date mention found near a deadline keyword. Context
// holds the surrounding phrase so the reader can judge relevance.
type Deadline struct {
	Type    string `json:"type" yaml:"type"`
	Date    string `json:"date" yaml:"date"`
	Context string `json:"context" yaml:"context"`
}

// Synthesize analyzes document text and builds a checklist. Categories
// whose keyword gate never matches, or whose generators produce no items,
// are omitted entirely rather than included empty.
func Synthesize(text string) *Checklist {
	reqs := extractRequirements(text)
	lower := strings.ToLower(text)

	cl := &Checklist{
		Title:       "Tender Submission Checklist",
		GeneratedAt: time.Now(),
		Categories:  make(map[string]*Category),
		Summary:     analyze(text, len(reqs)),
		Estimate:    estimateEffort(len(reqs)),
		Deadlines:   extractDeadlines(text),
	}

	for _, g := range generators {
		if !containsAny(lower, g.keywords...) {
			continue
		}
		items := g.build(lower, reqs)
		if len(items) == 0 {
			continue
		}
		cl.Categories[g.name] = &Category{
			Items:    items,
			Total:    len(items),
			Priority: categoryPriority(g.name),
		}
	}
	return cl
}

var (
	sentenceSplitRE = regexp.MustCompile(`[.!?]+`)

	// Modal patterns capture the clause after a requirement verb. The
	// clause bounds (10-150 in the pattern, 11-199 after trimming) keep
	// fragments and run-on captures out.
	requirementREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)must\s+([^.!?]{10,150})`),
		regexp.MustCompile(`(?i)shall\s+([^.!?]{10,150})`),
		regexp.MustCompile(`(?i)required\s+to\s+([^.!?]{10,150})`),
		regexp.MustCompile(`(?i)applicant\s+(?:must|should|shall)\s+([^.!?]{10,150})`),
		regexp.MustCompile(`(?i)you\s+(?:must|need to|should)\s+([^.!?]{10,150})`),
		regexp.MustCompile(`(?i)please\s+(?:provide|submit|include|attach)\s+([^.!?]{10,150})`),
	}

	// Bulleted and numbered lines only count as requirements when they
	// contain one of the indicator words.
	bulletREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[•·▪▫-]\s*([^.!?\n]{15,150})`),
		regexp.MustCompile(`(?i)\d+\.\s*([^.!?\n]{15,150})`),
		regexp.MustCompile(`(?i)[a-z]\)\s*([^.!?\n]{15,150})`),
	}

	requirementIndicators = []string{
		"must", "shall", "required", "mandatory", "need to", "have to",
		"essential", "compulsory", "obligatory", "necessary",
	}

	sectionREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(requirements?|specifications?|terms?|conditions?)\b`),
		regexp.MustCompile(`(?i)\b(scope\s+of\s+work|deliverables?)\b`),
		regexp.MustCompile(`(?i)\b(timeline|schedule|deadline)\b`),
		regexp.MustCompile(`(?i)\b(evaluation\s+criteria|selection\s+criteria)\b`),
		regexp.MustCompile(`(?i)\b(application|eligibility|criteria)\b`),
	}
)

// extractRequirements returns the deduplicated requirement clauses found
// in text, sorted so repeated synthesis of the same document yields the
// same list in the same order.
func extractRequirements(text string) []string {
	var reqs []string
	for _, re := range requirementREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			req := strings.TrimSpace(m[1])
			if len(req) > 10 && len(req) < 200 {
				reqs = append(reqs, normalizeSpace(req))
			}
		}
	}
	for _, re := range bulletREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			req := strings.TrimSpace(m[1])
			if containsAny(strings.ToLower(req), requirementIndicators...) {
				reqs = append(reqs, normalizeSpace(req))
			}
		}
	}
	sort.Strings(reqs)
	return compactSorted(reqs)
}

// deadlinePattern pairs one deadline keyword with one date shape. The
// combined expression requires the date in the same sentence as the
// keyword ([^.]*? cannot cross a period).
type deadlinePattern struct {
	keyword  string
	combined *regexp.Regexp
	date     *regexp.Regexp
}

var deadlinePatterns = buildDeadlinePatterns()

func buildDeadlinePatterns() []deadlinePattern {
	keywords := []string{"deadline", "due date", "submission date", "closing date", "final date", "by"}
	dates := []string{
		`\b(\d{1,2}[/-]\d{1,2}[/-]\d{4})\b`,
		`\b(\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`,
		`\b(\w+\s+\d{1,2},?\s+\d{4})\b`,
		`\b(\d{1,2}\s+\w+\s+\d{4})\b`,
	}
	out := make([]deadlinePattern, 0, len(keywords)*len(dates))
	for _, kw := range keywords {
		for _, d := range dates {
			out = append(out, deadlinePattern{
				keyword:  kw,
				combined: regexp.MustCompile(`(?i)` + kw + `[^.]*?` + d),
				date:     regexp.MustCompile(d),
			})
		}
	}
	return out
}

func extractDeadlines(text string) []Deadline {
	deadlines := []Deadline{}
	for _, p := range deadlinePatterns {
		for _, ctx := range p.combined.FindAllString(text, -1) {
			if d := p.date.FindStringSubmatch(ctx); d != nil {
				deadlines = append(deadlines, Deadline{
					Type:    p.keyword,
					Date:    d[1],
					Context: ctx,
				})
			}
		}
	}
	return deadlines
}

func analyze(text string, requirementsFound int) Summary {
	return Summary{
		WordCount:         len(strings.Fields(text)),
		SentenceCount:     countSentences(text),
		ComplexityScore:   complexityScore(text),
		KeySections:       keySections(text),
		DocumentType:      documentType(strings.ToLower(text)),
		IsOCRContent:      strings.Contains(text, extract.OCRMarker),
		RequirementsFound: requirementsFound,
	}
}

func countSentences(text string) int {
	n := 0
	for _, s := range sentenceSplitRE.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// complexityScore scores 0-1 from average sentence length and vocabulary
// richness, rounded to two decimals.
func complexityScore(text string) float64 {
	words := strings.Fields(text)
	sentences := countSentences(text)
	if len(words) == 0 || sentences == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	score := float64(len(words))/float64(sentences)/20 + float64(len(unique))/float64(len(words))
	if score > 1 {
		score = 1
	}
	return math.Round(score*100) / 100
}

func keySections(text string) []string {
	sections := []string{}
	for _, re := range sectionREs {
		sections = append(sections, re.FindAllString(text, -1)...)
	}
	sort.Strings(sections)
	return compactSorted(sections)
}

func documentType(lower string) string {
	switch {
	case strings.Contains(lower, "grant") && strings.Contains(lower, "application"):
		return "Grant Application"
	case strings.Contains(lower, "rfp") || strings.Contains(lower, "request for proposal"):
		return "RFP"
	case strings.Contains(lower, "rfq") || strings.Contains(lower, "request for quotation"):
		return "RFQ"
	case strings.Contains(lower, "tender"):
		return "Tender"
	case strings.Contains(lower, "bid"):
		return "Bid"
	case strings.Contains(lower, "application"):
		return "Application"
	}
	return "Document"
}

// estimateEffort projects hours from a 15 hour base plus 1.5 hours per
// extracted requirement.
func estimateEffort(requirementCount int) Estimate {
	total := int(15 + 1.5*float64(requirementCount))
	days := total / 8
	if days < 1 {
		days = 1
	}
	return Estimate{TotalHours: total, EstimatedDays: days}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// compactSorted removes adjacent duplicates from an already sorted slice.
func compactSorted(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if len(out) == 0 || s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
