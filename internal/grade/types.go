package grade

// ErrorType is the pedagogical category of a discrepancy.
type ErrorType string

const (
	Spelling    ErrorType = "spelling"
	Grammar     ErrorType = "grammar"
	Punctuation ErrorType = "punctuation"
	Missing     ErrorType = "missing"
	Extra       ErrorType = "extra"
)

// ErrorTypes lists every category in display order.
var ErrorTypes = []ErrorType{Spelling, Grammar, Punctuation, Missing, Extra}

// IsValid reports whether t is a known category.
func (t ErrorType) IsValid() bool {
	switch t {
	case Spelling, Grammar, Punctuation, Missing, Extra:
		return true
	}
	return false
}

// ErrorRecord is one discrepancy between the reference and the attempt.
// Positions are code point (rune) offsets into the attempt text. Missing and deleted
// punctuation records are zero-length markers (PositionStart == PositionEnd).
type ErrorRecord struct {
	ErrorType     ErrorType `json:"error_type"`
	PositionStart int       `json:"position_start"`
	PositionEnd   int       `json:"position_end"`
	TrueVariant   string    `json:"true_variant"`
}

// Found returns the attempt text the record covers, or "" for a marker or
// a span outside attempt.
func (e ErrorRecord) Found(attempt string) string {
	runes := []rune(attempt)
	if e.PositionStart < 0 || e.PositionStart > e.PositionEnd || e.PositionEnd > len(runes) {
		return ""
	}
	return string(runes[e.PositionStart:e.PositionEnd])
}

// MetricRecord aggregates accuracy figures for one attempt.
type MetricRecord struct {
	Levenshtein           int     `json:"levenshtein"`
	WER                   float64 `json:"wer"`
	CER                   float64 `json:"cer"`
	PER                   float64 `json:"per"`
	Accuracy              float64 `json:"accuracy"`
	WordErrorCount        int     `json:"word_error_count"`
	PunctuationErrorCount int     `json:"punctuation_error_count"`
	MissingWordCount      int     `json:"missing_word_count"`
	ExtraWordCount        int     `json:"extra_word_count"`
}

// Clamped returns a copy with every ratio limited to [0, 1].
// WER, CER and PER exceed 1 when the attempt is much longer than the reference.
func (m MetricRecord) Clamped() MetricRecord {
	m.WER = clamp01(m.WER)
	m.CER = clamp01(m.CER)
	m.PER = clamp01(m.PER)
	m.Accuracy = clamp01(m.Accuracy)
	return m
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// Result is the outcome of grading one attempt.
type Result struct {
	Errors  []ErrorRecord `json:"errors"`
	Metrics MetricRecord  `json:"metrics"`
}
