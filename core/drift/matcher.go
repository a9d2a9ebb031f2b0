package drift

import (
	"sort"
	"strings"

	"schema-drift/core/schema"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultRenameThreshold is used when a Matcher has no threshold configured.
const DefaultRenameThreshold = 0.5

// DefaultAmbiguityMargin is used when a Matcher has no margin configured.
const DefaultAmbiguityMargin = 1e-6

// Candidate is a scored (removed, added) pair that passed the type gate.
type Candidate struct {
	Removed schema.FlatKey `json:"removed"`
	Added   schema.FlatKey `json:"added"`
	Score   float64        `json:"score"`
}

// Ambiguity flags a chosen rename that had a rival within the margin.
// The deterministic tie rule already picked Chosen; Rivals are the pairs it
// beat.
type Ambiguity struct {
	Chosen Candidate   `json:"chosen"`
	Rivals []Candidate `json:"rivals"`
}

// Matcher pairs removed keys with added keys that look like renames.
type Matcher struct {
	// Threshold must be strictly exceeded by a pair's score.
	Threshold float64
	// AmbiguityMargin bounds the score gap that makes a rival ambiguous.
	AmbiguityMargin float64
	// Similarity scores two bare column names in [0,1]. Defaults to Similarity.
	Similarity func(a, b string) float64
}

// NewMatcher returns a matcher configured from cfg.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{
		Threshold:       cfg.RenameThreshold,
		AmbiguityMargin: cfg.AmbiguityMargin,
		Similarity:      Similarity,
	}
}

// Similarity is the case-insensitive SequenceMatcher ratio of two names:
// 2*M / (len(a)+len(b)) where M is the size of all matching blocks.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	)
	return m.Ratio()
}

// Candidates returns every pair with identical data types whose score is
// strictly above the threshold, best first. Ties are ordered by removed key,
// then added key.
func (m *Matcher) Candidates(res *Result) []Candidate {
	if res.FirstRun {
		return nil
	}
	sim := m.Similarity
	if sim == nil {
		sim = Similarity
	}
	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultRenameThreshold
	}

	var out []Candidate
	for _, r := range res.Removed {
		before := res.Prior[r]
		for _, a := range res.Added {
			if res.Current[a].DataType != before.DataType {
				continue
			}
			score := sim(r.Column(), a.Column())
			if score > threshold {
				out = append(out, Candidate{Removed: r, Added: a, Score: score})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Removed != out[j].Removed {
			return out[i].Removed < out[j].Removed
		}
		return out[i].Added < out[j].Added
	})
	return out
}

// Match greedily assigns renames by descending score. Each removed and each
// added key is used at most once. A pick whose still-available rivals on
// either endpoint score within the margin is reported as an Ambiguity.
func (m *Matcher) Match(res *Result) (map[schema.FlatKey]schema.FlatKey, []Ambiguity) {
	renamed := make(map[schema.FlatKey]schema.FlatKey)
	if !res.HasDrift() {
		return renamed, nil
	}

	margin := m.AmbiguityMargin
	if margin == 0 {
		margin = DefaultAmbiguityMargin
	}

	candidates := m.Candidates(res)
	usedRemoved := make(map[schema.FlatKey]bool)
	usedAdded := make(map[schema.FlatKey]bool)
	var ambiguities []Ambiguity

	for i, c := range candidates {
		if usedRemoved[c.Removed] || usedAdded[c.Added] {
			continue
		}

		var rivals []Candidate
		for _, o := range candidates[i+1:] {
			if c.Score-o.Score > margin {
				break
			}
			if usedRemoved[o.Removed] || usedAdded[o.Added] {
				continue
			}
			if o.Removed == c.Removed || o.Added == c.Added {
				rivals = append(rivals, o)
			}
		}
		if len(rivals) > 0 {
			ambiguities = append(ambiguities, Ambiguity{Chosen: c, Rivals: rivals})
		}

		renamed[c.Removed] = c.Added
		usedRemoved[c.Removed] = true
		usedAdded[c.Added] = true
	}

	return renamed, ambiguities
}
