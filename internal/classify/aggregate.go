package classify

// Support holds the three per-allele counters accumulated at a position.
type Support struct {
	Paired        int
	ForwardSingle int
	ReverseSingle int
}

// PositionSupport maps each queried allele to its accumulated support.
// It is constructed fresh per variant record and discarded after the
// record is annotated.
type PositionSupport map[Symbol]*Support

// MoleculeCall is the per-group input to aggregation: the group's tallies
// at the position, plus its classification when the group is paired.
type MoleculeCall struct {
	Key            string
	Group          *MoleculeGroup
	Paired         bool
	Classification Classification // valid only when Paired
	Forward        Tally          // forward-strand tally (singletons and pairs)
	Reverse        Tally          // reverse-strand tally (singletons and pairs)
}

// Aggregate sums molecule calls into per-allele support counts. Paired
// groups contribute both strand tallies to the Paired counter of every
// queried allele; singleton groups contribute their single strand tally to
// ForwardSingle or ReverseSingle. The sum is commutative, so the order of
// calls never changes the result.
func Aggregate(calls []MoleculeCall, refs, alts []Symbol) PositionSupport {
	sup := make(PositionSupport, len(refs)+len(alts))
	for _, a := range alts {
		sup[a] = &Support{}
	}
	for _, a := range refs {
		if _, ok := sup[a]; !ok {
			sup[a] = &Support{}
		}
	}

	for _, call := range calls {
		for allele, s := range sup {
			if call.Paired {
				s.Paired += call.Classification.Forward[allele] + call.Classification.Reverse[allele]
				continue
			}
			if call.Forward != nil {
				s.ForwardSingle += call.Forward[allele]
			}
			if call.Reverse != nil {
				s.ReverseSingle += call.Reverse[allele]
			}
		}
	}
	return sup
}
