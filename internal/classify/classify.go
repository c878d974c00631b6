package classify

// Category is the verdict for one paired molecule group. Exactly one
// category is produced per group.
type Category int

const (
	// CategoryReference marks a molecule supporting the reference base on
	// both strands.
	CategoryReference Category = iota
	// CategoryMutation marks alternate-allele support on both strands,
	// the signature of a genuine variant.
	CategoryMutation
	// CategoryFFPE marks alternate-allele support on exactly one strand,
	// the signature of a deamination artifact.
	CategoryFFPE
	// CategoryOther collects support patterns that resolve to none of the
	// above; it exists so that unclassifiable molecules are never dropped.
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryReference:
		return "reference"
	case CategoryMutation:
		return "mutation"
	case CategoryFFPE:
		return "ffpe"
	default:
		return "other"
	}
}

// Scope controls which substitutions may be called FFPE artifacts.
type Scope int

const (
	// ScopeDeamination restricts FFPE verdicts to the canonical C:G>T:A
	// deamination signature. Strand-asymmetric support for any other
	// substitution falls through to the remaining rules.
	ScopeDeamination Scope = iota
	// ScopeAll admits every substitution type.
	ScopeAll
)

// deaminationSignature reports whether a ref>alt substitution matches
// cytosine deamination on either strand.
func deaminationSignature(ref, alt Symbol) bool {
	return (ref == SymbolC && alt == SymbolT) || (ref == SymbolG && alt == SymbolA)
}

// Classification is the verdict for one paired molecule group, together
// with the strand tallies that produced it. Allele is the alternate that
// resolved the verdict, or the reference base for CategoryReference.
type Classification struct {
	Category Category
	Allele   Symbol
	Forward  Tally
	Reverse  Tally
}

// Classify applies the ordered rule list to a paired group's strand
// tallies. Alternate alleles are evaluated before reference bases and the
// first allele satisfying a rule decides the verdict:
//
//  1. alternate supported on both strands: mutation
//  2. alternate supported on exactly one strand: ffpe (subject to scope)
//  3. a reference base supported on both strands: reference
//  4. anything else: other
//
// Alleles absent from a tally simply count as zero support; a missing
// lookup never aborts classification.
func Classify(fwd, rev Tally, refs, alts []Symbol, scope Scope) Classification {
	for _, alt := range alts {
		f, r := fwd[alt], rev[alt]
		switch {
		case f > 0 && r > 0:
			return Classification{Category: CategoryMutation, Allele: alt, Forward: fwd, Reverse: rev}
		case f > 0 || r > 0:
			if scope == ScopeAll || anySignature(refs, alt) {
				return Classification{Category: CategoryFFPE, Allele: alt, Forward: fwd, Reverse: rev}
			}
		}
	}
	for _, ref := range refs {
		if fwd[ref] > 0 && rev[ref] > 0 {
			return Classification{Category: CategoryReference, Allele: ref, Forward: fwd, Reverse: rev}
		}
	}
	var allele Symbol
	if len(alts) > 0 {
		allele = alts[0]
	}
	return Classification{Category: CategoryOther, Allele: allele, Forward: fwd, Reverse: rev}
}

func anySignature(refs []Symbol, alt Symbol) bool {
	for _, ref := range refs {
		if deaminationSignature(ref, alt) {
			return true
		}
	}
	return false
}
