package classify

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"

	"github.com/fusac/fusac/internal/reads"
)

// makeRead builds a fully matched read starting at pos. Mate role and
// mapped strand are encoded in the flags as a paired-end aligner would.
func makeRead(name string, read1, reverse bool, seq string, pos int) *reads.Read {
	flags := sam.Paired
	if read1 {
		flags |= sam.Read1
	} else {
		flags |= sam.Read2
	}
	if reverse {
		flags |= sam.Reverse
	}
	rec := &sam.Record{
		Name:  name,
		Pos:   pos,
		Seq:   sam.NewSeq([]byte(seq)),
		Flags: flags,
		Cigar: []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, len(seq))},
	}
	return reads.NewRead(rec)
}

// makeClippedRead builds a read whose first clip bases are soft-clipped.
func makeClippedRead(name string, seq string, pos, clip int) *reads.Read {
	rec := &sam.Record{
		Name: name,
		Pos:  pos,
		Seq:  sam.NewSeq([]byte(seq)),
		Cigar: []sam.CigarOp{
			sam.NewCigarOp(sam.CigarSoftClipped, clip),
			sam.NewCigarOp(sam.CigarMatch, len(seq)-clip),
		},
	}
	return reads.NewRead(rec)
}

func TestCallBase(t *testing.T) {
	r := makeRead("r1", true, false, "ATCG", 100)

	assert.Equal(t, SymbolA, CallBase(r, 100))
	assert.Equal(t, SymbolT, CallBase(r, 101))
	assert.Equal(t, SymbolG, CallBase(r, 103))
}

func TestCallBase_OutsideAlignmentIsGap(t *testing.T) {
	r := makeRead("r1", true, false, "ATCG", 100)

	assert.Equal(t, SymbolGap, CallBase(r, 99))
	assert.Equal(t, SymbolGap, CallBase(r, 104))
}

func TestCallBase_DeletionIsGap(t *testing.T) {
	rec := &sam.Record{
		Name: "r1",
		Pos:  100,
		Seq:  sam.NewSeq([]byte("ATCG")),
		Cigar: []sam.CigarOp{
			sam.NewCigarOp(sam.CigarMatch, 2),
			sam.NewCigarOp(sam.CigarDeletion, 2),
			sam.NewCigarOp(sam.CigarMatch, 2),
		},
	}
	r := reads.NewRead(rec)

	// 102 and 103 are spanned by the deletion.
	assert.Equal(t, SymbolGap, CallBase(r, 102))
	assert.Equal(t, SymbolGap, CallBase(r, 103))
	assert.Equal(t, SymbolC, CallBase(r, 104))
}

func TestCallBase_SoftClipKeepsIndexArithmetic(t *testing.T) {
	// Two clipped bases precede the alignment; the base at coordinate 100
	// is the third sequence character.
	r := makeClippedRead("r1", "TTACGG", 100, 2)

	assert.Equal(t, SymbolA, CallBase(r, 100))
	assert.Equal(t, SymbolC, CallBase(r, 101))
}

func TestCallBase_AmbiguousBaseIsN(t *testing.T) {
	r := makeRead("r1", true, false, "AWCG", 100)

	assert.Equal(t, SymbolN, CallBase(r, 101))
}

func TestTallyBases(t *testing.T) {
	rs := []*reads.Read{
		makeRead("r1", true, false, "ATCG", 100),
		makeRead("r2", true, false, "AGCG", 100),
		makeRead("r3", true, false, "ATCG", 102), // does not cover 101
	}

	tally := TallyBases(rs, 101)
	assert.Equal(t, 1, tally[SymbolT])
	assert.Equal(t, 1, tally[SymbolG])
	assert.Equal(t, 1, tally[SymbolGap])
	assert.Equal(t, len(rs), tally.Total())
}
