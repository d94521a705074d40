package tokenizer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/giomambre/cv-job-matching/config"
)

// wordClass lists the characters that make up a word. Stop phrases only match
// where they are not flanked by one of these, and tokens are runs of them.
const wordClass = `\p{L}\p{M}\p{N}_`

// whitespaceRegex matches runs of whitespace, including Unicode spaces.
var whitespaceRegex = regexp.MustCompile(`[\s\v\p{Z}]+`)

// tokenRegex matches words of two or more characters.
var tokenRegex = regexp.MustCompile(`[` + wordClass + `]{2,}`)

// Normalizer lowercases text, collapses whitespace and strips stop phrases.
// It is immutable and safe for concurrent use.
type Normalizer struct {
	phrases *regexp.Regexp // nil when there is nothing to strip
}

// NewNormalizer compiles the stop phrases into a single word-bounded pattern.
// Longer phrases are tried first so "apply now" wins over "apply".
func NewNormalizer(stopPhrases []string) *Normalizer {
	seen := make(map[string]struct{}, len(stopPhrases))
	cleaned := make([]string, 0, len(stopPhrases))
	for _, phrase := range stopPhrases {
		p := collapse(strings.ToLower(phrase))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) == 0 {
		return &Normalizer{}
	}

	sort.Slice(cleaned, func(i, j int) bool {
		if len(cleaned[i]) != len(cleaned[j]) {
			return len(cleaned[i]) > len(cleaned[j])
		}
		return cleaned[i] < cleaned[j]
	})

	quoted := make([]string, len(cleaned))
	for i, p := range cleaned {
		quoted[i] = regexp.QuoteMeta(p)
	}
	pattern := `(^|[^` + wordClass + `])(?:` + strings.Join(quoted, "|") + `)([^` + wordClass + `]|$)`
	return &Normalizer{phrases: regexp.MustCompile(pattern)}
}

// Normalize returns the canonical form of raw text: lowercase, single spaces,
// no stop phrases. Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(raw string) string {
	text := collapse(strings.ToLower(raw))
	if n == nil || n.phrases == nil {
		return text
	}
	// Each pass only ever shortens the text, so the loop terminates. Repeating
	// catches adjacent phrases whose shared separator was consumed by a match.
	for {
		next := collapse(n.phrases.ReplaceAllString(text, "${1}${2}"))
		if next == text {
			return text
		}
		text = next
	}
}

var defaultNormalizer = NewNormalizer(config.DefaultStopPhrases)

// Normalize applies the default stop phrase list.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

func collapse(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// Tokenizer splits normalized text into vocabulary terms.
// It is immutable and safe for concurrent use.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer builds a tokenizer for the given stop word list ("english" or
// "none") plus any extra single-token stop words.
func NewTokenizer(stopWords string, extra []string) *Tokenizer {
	words := make(map[string]struct{})
	if stopWords == config.StopWordsEnglish {
		for w := range EnglishStopWords {
			words[w] = struct{}{}
		}
	}
	for _, w := range extra {
		words[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Tokenizer{stopWords: words}
}

// NewTokenizerFromSettings builds the tokenizer described by model settings.
func NewTokenizerFromSettings(settings config.ModelSettings) *Tokenizer {
	return NewTokenizer(settings.StopWords, settings.ExtraStopWords)
}

// Tokenize converts a string into a slice of terms in order of appearance.
// Terms are lowercased runs of at least two word characters; stop words are dropped.
func (t *Tokenizer) Tokenize(text string) []string {
	matches := tokenRegex.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(matches)) // Initialize as empty slice, not nil
	for _, m := range matches {
		if _, stop := t.stopWords[m]; stop {
			continue
		}
		tokens = append(tokens, m)
	}
	return tokens
}
