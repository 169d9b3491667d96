package extraction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/docverify/internal/document"
)

// IDGenerator generates unique IDs for results
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

// Document is one uploaded file awaiting processing
type Document struct {
	Name        string
	Data        []byte
	ContentType string
}

// Locations are where a document's artifacts were archived. Empty when
// archiving was disabled or failed.
type Locations struct {
	Source    string `json:"source,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// Result is the verified outcome for one document. Scores are derived from
// the records and verdicts each time they are requested.
type Result struct {
	ID          string
	Name        string
	Kind        document.Kind
	Primary     *document.Record
	Secondary   *document.Record
	Verdicts    document.Verdicts
	Locations   Locations
	ProcessedAt time.Time
	// Scorer weighs the confidence. Zero weights mean the default weights.
	Scorer      document.Scorer
}

func (r *Result) scorer() document.Scorer {
	if r.Scorer.CrossWeight == 0 && r.Scorer.RuleWeight == 0 {
		s := document.DefaultScorer
		s.ExcludeUnchecked = r.Scorer.ExcludeUnchecked
		return s
	}
	return r.Scorer
}

// CrossValidated reports whether a second reading was available
func (r *Result) CrossValidated() bool {
	return r.Secondary != nil
}

// Discrepancies returns the fields the two readings disagree on
func (r *Result) Discrepancies() document.Discrepancies {
	d, _ := document.CrossValidate(r.Primary, r.Secondary)
	return d
}

// MatchRatio returns the percentage of fields both readings agree on
func (r *Result) MatchRatio() float64 {
	_, ratio := document.CrossValidate(r.Primary, r.Secondary)
	return ratio
}

// RuleScore returns the percentage of validated fields that passed
func (r *Result) RuleScore() float64 {
	return r.scorer().RuleScore(r.Verdicts)
}

// Confidence returns the blended confidence score in [0,100]
func (r *Result) Confidence() float64 {
	return r.scorer().Score(r.Primary, r.Secondary, r.Verdicts)
}

// MarshalJSON includes the derived scores alongside the stored fields
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID             string                 `json:"id"`
		Name           string                 `json:"name"`
		Kind           document.Kind          `json:"kind"`
		Primary        *document.Record       `json:"primary"`
		Secondary      *document.Record       `json:"secondary,omitempty"`
		Verdicts       document.Verdicts      `json:"verdicts"`
		Discrepancies  document.Discrepancies `json:"discrepancies"`
		CrossValidated bool                   `json:"cross_validated"`
		MatchRatio     float64                `json:"match_ratio"`
		RuleScore      float64                `json:"rule_score"`
		Confidence     float64                `json:"confidence"`
		Locations      Locations              `json:"locations"`
		ProcessedAt    time.Time              `json:"processed_at"`
	}{
		ID:             r.ID,
		Name:           r.Name,
		Kind:           r.Kind,
		Primary:        r.Primary,
		Secondary:      r.Secondary,
		Verdicts:       r.Verdicts,
		Discrepancies:  r.Discrepancies(),
		CrossValidated: r.CrossValidated(),
		MatchRatio:     r.MatchRatio(),
		RuleScore:      r.RuleScore(),
		Confidence:     r.Confidence(),
		Locations:      r.Locations,
		ProcessedAt:    r.ProcessedAt,
	})
}
