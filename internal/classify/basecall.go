package classify

import "github.com/fusac/fusac/internal/reads"

// CallBase returns the symbol a read observed at the given reference
// coordinate. The lookup is a linear scan of the read's full-length
// position mapping, so soft-clipped bases keep index arithmetic aligned.
// A coordinate absent from the mapping means the alignment skips the
// position, which is reported as the gap symbol.
func CallBase(r *reads.Read, pos int) Symbol {
	for i, refPos := range r.RefPositions() {
		if refPos == pos {
			return SymbolFromBase(r.BaseAt(i))
		}
	}
	return SymbolGap
}

// TallyBases calls the base at pos for every read in the list and counts
// the observations per symbol. The total always equals the list length.
func TallyBases(rs []*reads.Read, pos int) Tally {
	t := make(Tally, 6)
	for _, r := range rs {
		t.Add(CallBase(r, pos))
	}
	return t
}
