package genome

import (
	"fmt"
	"sort"
)

// KnownPattern is a reference motif. Only Sequence takes part in scoring.
type KnownPattern struct {
	Name                string
	Sequence            Genome
	Kind                string
	Condition           string
	PopulationFrequency float64
	Treatment           string
	TreatmentResponse   float64
}

// PatternSet is an immutable, name-ordered collection of known patterns.
type PatternSet struct {
	patterns []KnownPattern
}

func NewPatternSet(patterns ...KnownPattern) (PatternSet, error) {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]KnownPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Name == "" {
			return PatternSet{}, fmt.Errorf("pattern name is required")
		}
		if _, dup := seen[p.Name]; dup {
			return PatternSet{}, fmt.Errorf("duplicate pattern %q", p.Name)
		}
		if p.Sequence.Len() == 0 {
			return PatternSet{}, fmt.Errorf("pattern %q has an empty sequence", p.Name)
		}
		seen[p.Name] = struct{}{}
		p.Sequence = p.Sequence.Clone()
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return PatternSet{patterns: out}, nil
}

func (s PatternSet) Len() int {
	return len(s.patterns)
}

func (s PatternSet) At(i int) KnownPattern {
	return s.patterns[i]
}

func (s PatternSet) Get(name string) (KnownPattern, bool) {
	for _, p := range s.patterns {
		if p.Name == name {
			return p, true
		}
	}
	return KnownPattern{}, false
}

// MaxLen is the length of the longest sequence in the set.
func (s PatternSet) MaxLen() int {
	longest := 0
	for _, p := range s.patterns {
		if p.Sequence.Len() > longest {
			longest = p.Sequence.Len()
		}
	}
	return longest
}
