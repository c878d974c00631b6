// Package reads provides the engine's view of aligned sequencing reads and
// a position-indexed source for fetching them from a BAM file.
package reads

import (
	"github.com/biogo/hts/sam"
)

// Read is an immutable view of one aligned read. It carries the query
// sequence and a full-length mapping from query index to reference
// coordinate, so index arithmetic stays consistent across soft-clipped
// and inserted bases.
type Read struct {
	rec    *sam.Record
	seq    []byte
	refPos []int
}

// NewRead wraps a SAM/BAM record, expanding its sequence and computing the
// query-index to reference-coordinate mapping from the CIGAR. Positions not
// aligned to the reference (soft clips, insertions) map to -1.
func NewRead(rec *sam.Record) *Read {
	return &Read{
		rec:    rec,
		seq:    rec.Seq.Expand(),
		refPos: referencePositions(rec),
	}
}

// referencePositions walks the CIGAR, assigning a reference coordinate to
// every query index. The slice always has one entry per sequence base.
func referencePositions(rec *sam.Record) []int {
	pos := make([]int, 0, rec.Seq.Length)
	ref := rec.Pos
	for _, co := range rec.Cigar {
		t, n := co.Type(), co.Len()
		consumes := t.Consumes()
		switch {
		case consumes.Query == 1 && consumes.Reference == 1:
			for i := 0; i < n; i++ {
				pos = append(pos, ref+i)
			}
			ref += n
		case consumes.Query == 1:
			for i := 0; i < n; i++ {
				pos = append(pos, -1)
			}
		case consumes.Reference == 1:
			ref += n
		}
	}
	// Records with a *-sequence or malformed CIGAR may come up short; pad so
	// callers can index the full query length.
	for len(pos) < rec.Seq.Length {
		pos = append(pos, -1)
	}
	return pos
}

// Name returns the read's query name.
func (r *Read) Name() string { return r.rec.Name }

// IsRead1 reports whether the read is the first mate of its pair.
func (r *Read) IsRead1() bool { return r.rec.Flags&sam.Read1 != 0 }

// IsReverse reports whether the read mapped to the reverse strand.
func (r *Read) IsReverse() bool { return r.rec.Flags&sam.Reverse != 0 }

// Len returns the query sequence length.
func (r *Read) Len() int { return len(r.seq) }

// BaseAt returns the raw sequence byte at query index i.
func (r *Read) BaseAt(i int) byte { return r.seq[i] }

// RefPositions returns the query-index to reference-coordinate mapping.
// Unaligned indices hold -1. The caller must not modify the slice.
func (r *Read) RefPositions() []int { return r.refPos }

// AuxString returns the string value of a two-letter aux tag, or false if
// the tag is absent.
func (r *Read) AuxString(tag string) (string, bool) {
	aux, ok := r.rec.Tag([]byte(tag))
	if !ok {
		return "", false
	}
	s, ok := aux.Value().(string)
	return s, ok
}
