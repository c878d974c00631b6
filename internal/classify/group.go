package classify

import (
	"go.uber.org/zap"

	"github.com/fusac/fusac/internal/reads"
)

// MoleculeGroup holds all reads reconstructed to one physical DNA
// fragment, split by which strand of the original molecule they derive
// from.
type MoleculeGroup struct {
	Forward []*reads.Read
	Reverse []*reads.Read
}

// Paired reports whether both strands of the molecule are represented.
func (g *MoleculeGroup) Paired() bool {
	return len(g.Forward) > 0 && len(g.Reverse) > 0
}

// Singleton reports whether only one strand is represented.
func (g *MoleculeGroup) Singleton() bool {
	return (len(g.Forward) > 0) != (len(g.Reverse) > 0)
}

// forwardMolecule maps the four mate-role x mapped-strand combinations onto
// the two strands of the original fragment: read1/forward and read2/reverse
// sequence the forward strand, the other two the reverse strand.
func forwardMolecule(r *reads.Read) bool {
	return r.IsRead1() != r.IsReverse()
}

// Grouper partitions reads into molecule groups keyed by their normalized
// UMI pair.
type Grouper struct {
	extractor Extractor
	logger    *zap.Logger
}

// NewGrouper returns a grouper using the given UMI extractor.
func NewGrouper(e Extractor) *Grouper {
	return &Grouper{extractor: e, logger: zap.NewNop()}
}

// SetLogger sets the logger used for skipped-read warnings.
func (g *Grouper) SetLogger(l *zap.Logger) { g.logger = l }

// Group partitions reads into molecule groups. The molecule key
// concatenates the UMI barcodes in strand-normalized order, so the two
// mates of a fragment land in the same group regardless of which strand
// or mate produced them. Reads with unparseable UMIs are logged and
// skipped; one bad read never discards the position.
func (g *Grouper) Group(rs []*reads.Read) map[string]*MoleculeGroup {
	groups := make(map[string]*MoleculeGroup)
	for _, r := range rs {
		left, right, err := g.extractor.Extract(r)
		if err != nil {
			g.logger.Warn("skipping read with unparseable umi",
				zap.String("read", r.Name()),
				zap.Error(err))
			continue
		}

		forward := forwardMolecule(r)
		key := left + "_" + right
		if !forward {
			key = right + "_" + left
		}

		grp, ok := groups[key]
		if !ok {
			grp = &MoleculeGroup{}
			groups[key] = grp
		}
		if forward {
			grp.Forward = append(grp.Forward, r)
		} else {
			grp.Reverse = append(grp.Reverse, r)
		}
	}
	return groups
}
