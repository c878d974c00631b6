// Package classify implements the UMI molecule-reconstruction and
// FFPE-artifact classification engine.
//
// Reads overlapping a variant position are grouped into molecules by their
// UMI pair, the base each strand observed at the position is tallied, and
// each paired molecule is classified as supporting the reference, a true
// mutation, an FFPE deamination artifact, or an unresolved pattern.
package classify

// Symbol is a single observed base at a reference coordinate.
// The gap symbol marks a read whose alignment skips the coordinate.
type Symbol byte

const (
	SymbolA   Symbol = 'A'
	SymbolT   Symbol = 'T'
	SymbolG   Symbol = 'G'
	SymbolC   Symbol = 'C'
	SymbolN   Symbol = 'N'
	SymbolGap Symbol = '-'
)

// SymbolFromBase normalizes a raw sequence byte to one of the tally symbols.
// Lowercase bases are uppercased; anything outside {A,C,G,T} becomes N.
func SymbolFromBase(b byte) Symbol {
	if 'a' <= b && b <= 'z' {
		b -= 'a' - 'A'
	}
	switch b {
	case 'A', 'C', 'G', 'T':
		return Symbol(b)
	default:
		return SymbolN
	}
}

// SymbolsFromAlleles converts single-character allele strings to symbols,
// dropping duplicates while preserving first-seen order.
func SymbolsFromAlleles(alleles []string) []Symbol {
	var out []Symbol
	seen := make(map[Symbol]bool)
	for _, a := range alleles {
		for i := 0; i < len(a); i++ {
			s := SymbolFromBase(a[i])
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Tally counts base observations per symbol for one strand of a molecule
// at a fixed coordinate.
type Tally map[Symbol]int

// Add records one observation.
func (t Tally) Add(s Symbol) { t[s]++ }

// Total returns the number of observations recorded.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}
