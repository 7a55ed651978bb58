package genome

import "fmt"

// Population is an ordered set of genomes sharing one length.
type Population struct {
	members []Genome
	length  int
}

// NewPopulation takes ownership of members. Mixed lengths are a caller bug and
// are rejected.
func NewPopulation(members []Genome) (Population, error) {
	if len(members) == 0 {
		return Population{}, nil
	}
	length := members[0].Len()
	for i, g := range members {
		if g.Len() != length {
			return Population{}, fmt.Errorf("%w: member %d has length %d, want %d", ErrLengthMismatch, i, g.Len(), length)
		}
	}
	return Population{members: members, length: length}, nil
}

func (p Population) Len() int {
	return len(p.members)
}

func (p Population) GenomeLength() int {
	return p.length
}

// At returns the member at i without copying.
func (p Population) At(i int) Genome {
	return p.members[i]
}

// Clone deep-copies every member.
func (p Population) Clone() Population {
	members := make([]Genome, len(p.members))
	for i, g := range p.members {
		members[i] = g.Clone()
	}
	return Population{members: members, length: p.length}
}

// Contains reports whether a genome equal to g is present.
func (p Population) Contains(g Genome) bool {
	for _, m := range p.members {
		if m.Equal(g) {
			return true
		}
	}
	return false
}
