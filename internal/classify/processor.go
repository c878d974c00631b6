package classify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fusac/fusac/internal/reads"
	"github.com/fusac/fusac/internal/vcf"
)

// FFPE annotation names written onto variant records.
const (
	FilterFFPE = "FFPE"
	FormatUMI  = "UMI"
	FormatSUMI = "SUMI"
)

// ErrUnsupportedVariant marks a record whose ref or alt alleles are not
// simple single-base substitutions. Such records are passed through
// unannotated rather than partially processed.
var ErrUnsupportedVariant = errors.New("not a single-nucleotide substitution")

// Result holds everything the classifier learned about one variant record.
// All state is scoped to the record; nothing persists across records.
type Result struct {
	Refs    []Symbol
	Alts    []Symbol
	Support PositionSupport
	Calls   []MoleculeCall

	Molecules   int // molecule groups observed at the position
	PairedCount int // groups with both strands represented
	FFPECount   int // paired groups classified as artifacts
}

// HasFFPE reports whether any molecule group at the position classified as
// an FFPE artifact.
func (r *Result) HasFFPE() bool { return r.FFPECount > 0 }

// UMIValue formats the paired/forward-single/reverse-single support
// counts, alternate alleles first, then reference bases, alleles separated
// by semicolons. Counts within an allele are comma-separated; a colon here
// would collide with the FORMAT field delimiter and make the sample column
// unsplittable.
func (r *Result) UMIValue() string {
	var parts []string
	for _, a := range append(append([]Symbol{}, r.Alts...), r.Refs...) {
		s := r.Support[a]
		parts = append(parts, fmt.Sprintf("%d,%d,%d", s.Paired, s.ForwardSingle, s.ReverseSingle))
	}
	return strings.Join(parts, ";")
}

// SUMIValue formats the singleton-only support counts in the same allele
// order as UMIValue.
func (r *Result) SUMIValue() string {
	var parts []string
	for _, a := range append(append([]Symbol{}, r.Alts...), r.Refs...) {
		s := r.Support[a]
		parts = append(parts, fmt.Sprintf("%d,%d", s.ForwardSingle, s.ReverseSingle))
	}
	return strings.Join(parts, ";")
}

// FFPEFraction returns the percentage of paired molecular support
// attributable to the alternate alleles, the variant-allele fraction used
// by the CSV summary. Returns 0 when there is no paired support.
func (r *Result) FFPEFraction() float64 {
	alt, total := 0, 0
	for _, a := range r.Alts {
		alt += r.Support[a].Paired
	}
	total = alt
	for _, ref := range r.Refs {
		total += r.Support[ref].Paired
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(alt) / float64(total)
}

// Processor drives the engine for single variant records: fetch reads,
// group into molecules, classify paired groups, aggregate support. One
// Processor serves one worker; it holds no cross-record state.
type Processor struct {
	source  reads.Source
	grouper *Grouper
	scope   Scope
	logger  *zap.Logger
}

// NewProcessor returns a processor reading from the given source.
func NewProcessor(src reads.Source, extractor Extractor, scope Scope) *Processor {
	return &Processor{
		source:  src,
		grouper: NewGrouper(extractor),
		scope:   scope,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for per-read and per-record diagnostics.
func (p *Processor) SetLogger(l *zap.Logger) {
	p.logger = l
	p.grouper.SetLogger(l)
}

// Process runs the engine for one variant record. Non-SNV records return
// ErrUnsupportedVariant; read fetch failures are returned as-is. Neither
// stops processing of subsequent records.
func (p *Processor) Process(v *vcf.Variant) (*Result, error) {
	if !v.IsSNV() {
		return nil, fmt.Errorf("%s:%d %s>%s: %w",
			v.Chrom, v.Pos, v.Ref, strings.Join(v.Alts, ","), ErrUnsupportedVariant)
	}
	refs := SymbolsFromAlleles([]string{v.Ref})
	alts := SymbolsFromAlleles(v.Alts)

	// VCF positions are 1-based; the read source is 0-based half-open. The
	// chromosome name is normalized so the source's chr-prefix fallback
	// covers both naming conventions on either side.
	pos := int(v.Pos - 1)
	rs, err := p.source.Fetch(v.NormalizeChrom(), pos, pos+1)
	if err != nil {
		return nil, fmt.Errorf("fetch reads at %s:%d: %w", v.Chrom, v.Pos, err)
	}

	groups := p.grouper.Group(rs)

	res := &Result{Refs: refs, Alts: alts}
	for key, grp := range groups {
		call := MoleculeCall{Key: key, Group: grp}
		switch {
		case grp.Paired():
			fwd := TallyBases(grp.Forward, pos)
			rev := TallyBases(grp.Reverse, pos)
			call.Paired = true
			call.Classification = Classify(fwd, rev, refs, alts, p.scope)
			call.Forward = fwd
			call.Reverse = rev
			res.PairedCount++
			if call.Classification.Category == CategoryFFPE {
				res.FFPECount++
			}
		case len(grp.Forward) > 0:
			call.Forward = TallyBases(grp.Forward, pos)
		case len(grp.Reverse) > 0:
			call.Reverse = TallyBases(grp.Reverse, pos)
		default:
			// Empty groups indicate a grouping bug; never let one through.
			continue
		}
		res.Molecules++
		res.Calls = append(res.Calls, call)
	}

	res.Support = Aggregate(res.Calls, refs, alts)
	return res, nil
}

// Annotate writes a result onto its variant record: the FFPE filter when
// any molecule classified as an artifact, and the UMI/SUMI sample fields.
func Annotate(v *vcf.Variant, res *Result) {
	if res.HasFFPE() {
		v.AddFilter(FilterFFPE)
	}
	v.SetSampleValue(FormatUMI, res.UMIValue())
	v.SetSampleValue(FormatSUMI, res.SUMIValue())
}

// ParseUMIValue parses a UMI sample field back into per-allele support,
// in the allele order the record declares (alts then ref characters).
// Used by the CSV summary when reading an already-annotated VCF.
func ParseUMIValue(value string) ([]Support, error) {
	var out []Support
	for _, part := range strings.Split(value, ";") {
		nums := strings.Split(part, ",")
		if len(nums) != 3 {
			return nil, fmt.Errorf("umi field %q: expected paired,fwd,rev triple, got %q", value, part)
		}
		var s Support
		var err error
		if s.Paired, err = strconv.Atoi(nums[0]); err != nil {
			return nil, fmt.Errorf("umi field %q: %w", value, err)
		}
		if s.ForwardSingle, err = strconv.Atoi(nums[1]); err != nil {
			return nil, fmt.Errorf("umi field %q: %w", value, err)
		}
		if s.ReverseSingle, err = strconv.Atoi(nums[2]); err != nil {
			return nil, fmt.Errorf("umi field %q: %w", value, err)
		}
		out = append(out, s)
	}
	return out, nil
}
