package genome

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLengthMismatch = errors.New("genome length mismatch")
	ErrInvalidGene    = errors.New("gene must be 0 or 1")
)

// Genome is a fixed-length bit vector. The buffer is owned by the value that
// holds it; Clone must be used to hand a copy to another population slot.
type Genome struct {
	genes []uint8
}

// New returns an all-zero genome of the given length.
func New(length int) Genome {
	if length < 0 {
		length = 0
	}
	return Genome{genes: make([]uint8, length)}
}

func FromBits(bits ...uint8) (Genome, error) {
	genes := make([]uint8, len(bits))
	for i, b := range bits {
		if b > 1 {
			return Genome{}, fmt.Errorf("%w: position %d has %d", ErrInvalidGene, i, b)
		}
		genes[i] = b
	}
	return Genome{genes: genes}, nil
}

// Parse reads a genome from a string of '0' and '1' runes.
func Parse(s string) (Genome, error) {
	genes := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			genes[i] = 1
		default:
			return Genome{}, fmt.Errorf("%w: position %d has %q", ErrInvalidGene, i, s[i])
		}
	}
	return Genome{genes: genes}, nil
}

// MustParse is Parse for fixtures and constants.
func MustParse(s string) Genome {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Genome) Len() int {
	return len(g.genes)
}

func (g Genome) Gene(i int) uint8 {
	return g.genes[i]
}

func (g Genome) Set(i int, v uint8) {
	g.genes[i] = v & 1
}

func (g Genome) Flip(i int) {
	g.genes[i] ^= 1
}

// Ones counts active genes.
func (g Genome) Ones() int {
	n := 0
	for _, b := range g.genes {
		n += int(b)
	}
	return n
}

func (g Genome) Clone() Genome {
	if g.genes == nil {
		return Genome{}
	}
	return Genome{genes: append([]uint8(nil), g.genes...)}
}

func (g Genome) Equal(other Genome) bool {
	if len(g.genes) != len(other.genes) {
		return false
	}
	for i := range g.genes {
		if g.genes[i] != other.genes[i] {
			return false
		}
	}
	return true
}

// Bits returns a copy of the genes.
func (g Genome) Bits() []uint8 {
	return append([]uint8(nil), g.genes...)
}

// Float64s returns the genes as float64 values for numeric routines.
func (g Genome) Float64s() []float64 {
	out := make([]float64, len(g.genes))
	for i, b := range g.genes {
		out[i] = float64(b)
	}
	return out
}

// Slice copies genes in [from, to).
func (g Genome) Slice(from, to int) Genome {
	return Genome{genes: append([]uint8(nil), g.genes[from:to]...)}
}

// MatchFraction returns the fraction of positions at which pattern equals the
// window of g starting at offset.
func (g Genome) MatchFraction(pattern Genome, offset int) float64 {
	if pattern.Len() == 0 {
		return 0
	}
	matches := 0
	for i, b := range pattern.genes {
		if g.genes[offset+i] == b {
			matches++
		}
	}
	return float64(matches) / float64(pattern.Len())
}

func (g Genome) String() string {
	var sb strings.Builder
	sb.Grow(len(g.genes))
	for _, b := range g.genes {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Hamming counts differing positions between two genomes of equal length.
func Hamming(a, b Genome) (int, error) {
	if a.Len() != b.Len() {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Len(), b.Len())
	}
	d := 0
	for i := range a.genes {
		if a.genes[i] != b.genes[i] {
			d++
		}
	}
	return d, nil
}
