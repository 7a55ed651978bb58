package genome

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

var ErrUnknownRegion = errors.New("unknown region")

// Region identifies one of the four decoding buckets of a genome, in genome
// order.
type Region int

const (
	RegionCoding Region = iota
	RegionRegulatory
	RegionIntronic
	RegionStructural
)

// Regions lists every region in decoding order.
var Regions = [...]Region{RegionCoding, RegionRegulatory, RegionIntronic, RegionStructural}

var regionNames = [...]string{
	RegionCoding:     "coding",
	RegionRegulatory: "regulatory",
	RegionIntronic:   "introns",
	RegionStructural: "structural_variants",
}

func (r Region) String() string {
	if r < RegionCoding || r > RegionStructural {
		return fmt.Sprintf("region(%d)", int(r))
	}
	return regionNames[r]
}

// ParseRegion resolves a region name. Unknown names fail with the closest
// valid name as a hint.
func ParseRegion(name string) (Region, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, r := range Regions {
		if regionNames[r] == normalized {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownRegion, name, closestRegionName(normalized))
}

func closestRegionName(name string) string {
	best := regionNames[0]
	bestDistance := -1
	for _, candidate := range regionNames {
		d := smetrics.WagnerFischer(name, candidate, 1, 1, 2)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

// Decode splits g into the four regions. Each region spans len/4 genes; the
// structural region also takes any remainder.
func Decode(g Genome) [len(Regions)]Genome {
	quarter := g.Len() / 4
	var out [len(Regions)]Genome
	for i, r := range Regions {
		from := i * quarter
		to := from + quarter
		if r == RegionStructural {
			to = g.Len()
		}
		out[r] = g.Slice(from, to)
	}
	return out
}

// ReferenceData maps regions to observed reference sequences. It is read-only
// once built.
type ReferenceData struct {
	regions map[Region]Genome
}

// NewReferenceData validates region names and gene values.
func NewReferenceData(raw map[string][]uint8) (ReferenceData, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	regions := make(map[Region]Genome, len(raw))
	for _, name := range names {
		region, err := ParseRegion(name)
		if err != nil {
			return ReferenceData{}, err
		}
		if _, dup := regions[region]; dup {
			return ReferenceData{}, fmt.Errorf("duplicate reference for region %s", region)
		}
		seq, err := FromBits(raw[name]...)
		if err != nil {
			return ReferenceData{}, fmt.Errorf("reference %s: %w", name, err)
		}
		regions[region] = seq
	}
	return ReferenceData{regions: regions}, nil
}

// ReferenceFromRegions builds reference data from already-typed sequences.
func ReferenceFromRegions(regions map[Region]Genome) ReferenceData {
	copied := make(map[Region]Genome, len(regions))
	for r, g := range regions {
		copied[r] = g.Clone()
	}
	return ReferenceData{regions: copied}
}

// Lookup returns the reference for r. The returned genome must not be
// modified.
func (d ReferenceData) Lookup(r Region) (Genome, bool) {
	g, ok := d.regions[r]
	return g, ok
}

func (d ReferenceData) Len() int {
	return len(d.regions)
}

// TotalOnes sums active genes across every region.
func (d ReferenceData) TotalOnes() int {
	total := 0
	for _, g := range d.regions {
		total += g.Ones()
	}
	return total
}
