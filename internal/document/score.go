package document

// Scorer blends cross-model agreement with rule-based validity
type Scorer struct {
	CrossWeight float64
	RuleWeight  float64
	// ExcludeUnchecked drops unknown fields from the rule score denominator
	// instead of counting them as failures
	ExcludeUnchecked bool
}

// DefaultScorer weighs agreement at 60% and rule validity at 40%, counting
// unknown fields against the rule score
var DefaultScorer = Scorer{CrossWeight: 0.6, RuleWeight: 0.4}

// RuleScore is the percentage of fields that passed validation
func (s Scorer) RuleScore(verdicts Verdicts) float64 {
	total := len(verdicts)
	if s.ExcludeUnchecked {
		total = verdicts.CheckedCount()
	}
	if total == 0 {
		return 0
	}
	return float64(verdicts.ValidCount()) / float64(total) * 100
}

// Score returns the confidence in [0,100] for reading a, optionally checked
// against a second reading b. Without b the rule score stands alone; without a
// there is nothing to score.
func (s Scorer) Score(a, b *Record, verdicts Verdicts) float64 {
	if a == nil {
		return 0
	}
	ruleScore := s.RuleScore(verdicts)
	if b == nil {
		return ruleScore
	}
	_, matchRatio := CrossValidate(a, b)
	return s.CrossWeight*matchRatio + s.RuleWeight*ruleScore
}

// Score is DefaultScorer.Score
func Score(a, b *Record, verdicts Verdicts) float64 {
	return DefaultScorer.Score(a, b, verdicts)
}
