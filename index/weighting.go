package index

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giomambre/cv-job-matching/config"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/tokenizer"
	"github.com/giomambre/cv-job-matching/model"
)

// WeightingModel is a fitted TF-IDF model: a capped vocabulary with one IDF
// value per term, plus the settings that produced it. It never changes after
// Fit and is safe for concurrent use.
type WeightingModel struct {
	Version       string
	Settings      config.ModelSettings
	Vocabulary    map[string]int // term -> index into Terms and IDF
	Terms         []string       // lexically sorted
	IDF           []float64
	DocumentCount int

	normalizer *tokenizer.Normalizer
	tokenizer  *tokenizer.Tokenizer
}

// gobWeightingModelData is a helper struct for Gob encoding/decoding WeightingModel data.
// The vocabulary map and the compiled analyzers are rebuilt on decode.
type gobWeightingModelData struct {
	Version       string
	Settings      config.ModelSettings
	Terms         []string
	IDF           []float64
	DocumentCount int
}

type termStats struct {
	term          string
	totalCount    int
	documentCount int
}

// Fit learns the vocabulary and IDF table from normalized documents and returns
// the L2-normalized TF-IDF vector of every document, aligned with the input.
//
// The vocabulary keeps at most settings.MaxFeatures terms, preferring terms that
// occur most often across the corpus (ties broken lexically). IDF is smoothed:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func Fit(documents []string, settings config.ModelSettings) (*WeightingModel, []model.WeightedVector, error) {
	settings.ApplyDefaults()
	if settings.MaxFeatures < 0 {
		return nil, nil, apperrors.NewValidationError("max_features", "must be positive, got "+strconv.Itoa(settings.MaxFeatures))
	}
	if len(documents) == 0 {
		return nil, nil, apperrors.NewEmptyCorpusError("no documents to fit")
	}

	tk := tokenizer.NewTokenizerFromSettings(settings)

	counts := make([]map[string]int, len(documents))
	stats := make(map[string]*termStats)
	for i, doc := range documents {
		tf := countTerms(tk.Tokenize(doc))
		counts[i] = tf
		for term, c := range tf {
			s, ok := stats[term]
			if !ok {
				s = &termStats{term: term}
				stats[term] = s
			}
			s.totalCount += c
			s.documentCount++
		}
	}
	if len(stats) == 0 {
		return nil, nil, apperrors.NewEmptyCorpusError("vocabulary is empty after stop-word removal")
	}

	kept := make([]*termStats, 0, len(stats))
	for _, s := range stats {
		kept = append(kept, s)
	}
	if len(kept) > settings.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if kept[i].totalCount != kept[j].totalCount {
				return kept[i].totalCount > kept[j].totalCount
			}
			return kept[i].term < kept[j].term
		})
		kept = kept[:settings.MaxFeatures]
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].term < kept[j].term })

	n := float64(len(documents))
	m := &WeightingModel{
		Settings:      settings,
		Vocabulary:    make(map[string]int, len(kept)),
		Terms:         make([]string, len(kept)),
		IDF:           make([]float64, len(kept)),
		DocumentCount: len(documents),
		normalizer:    tokenizer.NewNormalizer(settings.StopPhrases),
		tokenizer:     tk,
	}
	for i, s := range kept {
		m.Vocabulary[s.term] = i
		m.Terms[i] = s.term
		m.IDF[i] = math.Log((1+n)/(1+float64(s.documentCount))) + 1
	}

	vectors := make([]model.WeightedVector, len(documents))
	for i, tf := range counts {
		vectors[i] = m.weigh(tf)
	}
	return m, vectors, nil
}

// Transform maps normalized text onto the fitted vocabulary. Terms outside the
// vocabulary are ignored; text sharing no term with it yields the zero vector.
func (m *WeightingModel) Transform(text string) (model.WeightedVector, error) {
	if err := ValidateText(text); err != nil {
		return model.WeightedVector{}, err
	}
	return m.weigh(countTerms(m.tokenizer.Tokenize(text))), nil
}

// Analyze normalizes raw text with the model's stop phrases and transforms it.
func (m *WeightingModel) Analyze(raw string) (model.WeightedVector, error) {
	if err := ValidateText(raw); err != nil {
		return model.WeightedVector{}, err
	}
	return m.Transform(m.normalizer.Normalize(raw))
}

// Normalize applies the model's fit-time normalization to raw text.
func (m *WeightingModel) Normalize(raw string) string {
	return m.normalizer.Normalize(raw)
}

// Dimension returns the vocabulary size.
func (m *WeightingModel) Dimension() int {
	return len(m.Terms)
}

// ValidateText rejects input that cannot be treated as text.
func ValidateText(text string) error {
	if !utf8.ValidString(text) {
		return apperrors.NewUnsupportedInputError("text is not valid UTF-8")
	}
	if strings.IndexByte(text, 0) >= 0 {
		return apperrors.NewUnsupportedInputError("text contains NUL bytes")
	}
	return nil
}

// weigh builds the L2-normalized TF-IDF vector for raw term counts.
func (m *WeightingModel) weigh(tf map[string]int) model.WeightedVector {
	indices := make([]int, 0, len(tf))
	for term := range tf {
		if idx, ok := m.Vocabulary[term]; ok {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		return model.WeightedVector{}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var sum float64
	for i, idx := range indices {
		w := float64(tf[m.Terms[idx]]) * m.IDF[idx]
		values[i] = w
		sum += w * w
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return model.WeightedVector{}
	}
	for i := range values {
		values[i] /= norm
	}
	return model.WeightedVector{Indices: indices, Values: values}
}

func countTerms(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// TopIDFTerms returns the n most distinctive terms, highest IDF first.
func (m *WeightingModel) TopIDFTerms(n int) []model.TermWeight {
	if n <= 0 {
		return []model.TermWeight{}
	}
	order := make([]int, len(m.Terms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.IDF[order[a]] > m.IDF[order[b]]
	})
	if n > len(order) {
		n = len(order)
	}
	out := make([]model.TermWeight, n)
	for i := 0; i < n; i++ {
		out[i] = model.TermWeight{Term: m.Terms[order[i]], Weight: m.IDF[order[i]]}
	}
	return out
}

// DescribeVector returns the n heaviest terms of a vector, heaviest first.
func (m *WeightingModel) DescribeVector(v model.WeightedVector, n int) []model.TermWeight {
	out := make([]model.TermWeight, 0, len(v.Indices))
	for i, idx := range v.Indices {
		if idx < 0 || idx >= len(m.Terms) || v.Values[i] == 0 {
			continue
		}
		out = append(out, model.TermWeight{Term: m.Terms[idx], Weight: v.Values[i]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Weight > out[b].Weight
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// GobEncode implements the gob.GobEncoder interface for WeightingModel.
func (m *WeightingModel) GobEncode() ([]byte, error) {
	dataToEncode := gobWeightingModelData{
		Version:       m.Version,
		Settings:      m.Settings,
		Terms:         m.Terms,
		IDF:           m.IDF,
		DocumentCount: m.DocumentCount,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for WeightingModel.
// It rejects tables that could not have come from Fit.
func (m *WeightingModel) GobDecode(data []byte) error {
	decodedData := gobWeightingModelData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	if len(decodedData.Terms) == 0 {
		return fmt.Errorf("vocabulary is empty")
	}
	if len(decodedData.Terms) != len(decodedData.IDF) {
		return fmt.Errorf("vocabulary has %d terms but %d idf values", len(decodedData.Terms), len(decodedData.IDF))
	}

	vocabulary := make(map[string]int, len(decodedData.Terms))
	for i, term := range decodedData.Terms {
		if i > 0 && decodedData.Terms[i-1] >= term {
			return fmt.Errorf("vocabulary is not sorted at term %d (%q)", i, term)
		}
		if idf := decodedData.IDF[i]; math.IsNaN(idf) || idf < 1 {
			return fmt.Errorf("invalid idf %v for term %q", idf, term)
		}
		vocabulary[term] = i
	}

	// Settings are used as persisted: an empty phrase list at fit time decodes
	// as nil and must stay empty.
	settings := decodedData.Settings

	m.Version = decodedData.Version
	m.Settings = settings
	m.Vocabulary = vocabulary
	m.Terms = decodedData.Terms
	m.IDF = decodedData.IDF
	m.DocumentCount = decodedData.DocumentCount
	m.normalizer = tokenizer.NewNormalizer(settings.StopPhrases)
	m.tokenizer = tokenizer.NewTokenizerFromSettings(settings)
	return nil
}
