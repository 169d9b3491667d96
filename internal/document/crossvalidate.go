package document

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Discrepancy is a field two readings of the same document disagree on.
// Similarity is the Jaro-Winkler similarity of the two values in [0,1] and
// does not affect scoring.
type Discrepancy struct {
	Field      string  `json:"field"`
	A          string  `json:"a"`
	B          string  `json:"b"`
	Similarity float64 `json:"similarity"`
}

// Discrepancies are ordered by field schema
type Discrepancies []Discrepancy

// Fields returns the names of the disagreeing fields
func (ds Discrepancies) Fields() []string {
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.Field)
	}
	return names
}

// Has reports whether field disagrees
func (ds Discrepancies) Has(field string) bool {
	for _, d := range ds {
		if d.Field == field {
			return true
		}
	}
	return false
}

// CrossValidate compares two readings field by field using exact string
// equality and returns the disagreements and the percentage of fields that
// matched. A missing second reading, or one of another kind, yields no
// discrepancies and a ratio of 0.
func CrossValidate(a, b *Record) (Discrepancies, float64) {
	if a == nil || b == nil || a.Kind != b.Kind {
		return Discrepancies{}, 0
	}

	fields := a.Fields()
	if len(fields) == 0 {
		return Discrepancies{}, 0
	}

	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = true

	discrepancies := Discrepancies{}
	matches := 0
	for _, f := range fields {
		other, ok := b.Value(f.Name)
		if !ok {
			other = NA
		}
		if f.Value == other {
			matches++
			continue
		}
		discrepancies = append(discrepancies, Discrepancy{
			Field:      f.Name,
			A:          f.Value,
			B:          other,
			Similarity: strutil.Similarity(f.Value, other, jw),
		})
	}
	return discrepancies, float64(matches) / float64(len(fields)) * 100
}
