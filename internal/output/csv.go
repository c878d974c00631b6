package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fusac/fusac/internal/classify"
	"github.com/fusac/fusac/internal/vcf"
)

// VAFRange is an inclusive percentage range used to filter CSV summary
// rows on the FFPE variant-allele fraction.
type VAFRange struct {
	Low  float64
	High float64
}

// FullVAFRange admits every record.
var FullVAFRange = VAFRange{Low: 0, High: 100}

// ParseVAFRange parses a "low,high" percentage pair.
func ParseVAFRange(s string) (VAFRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return VAFRange{}, fmt.Errorf("vaf range %q: expected low,high", s)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return VAFRange{}, fmt.Errorf("vaf range %q: %w", s, err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return VAFRange{}, fmt.Errorf("vaf range %q: %w", s, err)
	}
	if low > high {
		return VAFRange{}, fmt.Errorf("vaf range %q: low exceeds high", s)
	}
	return VAFRange{Low: low, High: high}, nil
}

// Contains reports whether vaf falls inside the inclusive range.
func (r VAFRange) Contains(vaf float64) bool {
	return vaf >= r.Low && vaf <= r.High
}

// SummaryWriter writes a per-record CSV summary of molecular support:
// reference and variant support counts, the number of FFPE-classified
// molecules, the FFPE variant-allele fraction, and the substitution type.
// Records whose VAF falls outside the configured range are omitted.
type SummaryWriter struct {
	w       *csv.Writer
	vafs    VAFRange
	written int
}

// NewSummaryWriter creates a summary writer with the given VAF filter.
func NewSummaryWriter(w io.Writer, vafs VAFRange) *SummaryWriter {
	return &SummaryWriter{w: csv.NewWriter(w), vafs: vafs}
}

// WriteHeader writes the CSV column header.
func (sw *SummaryWriter) WriteHeader() error {
	return sw.w.Write([]string{
		"chrom", "pos", "ref", "alt",
		"ref_paired", "ref_single_forward", "ref_single_reverse",
		"alt_paired", "alt_single_forward", "alt_single_reverse",
		"ffpe_molecules", "ffpe_vaf", "substitution",
	})
}

// WriteRecord writes one classified record, applying the VAF filter.
func (sw *SummaryWriter) WriteRecord(v *vcf.Variant, res *classify.Result) error {
	vaf := res.FFPEFraction()
	if !sw.vafs.Contains(vaf) {
		return nil
	}

	refSup := sumSupport(res.Support, res.Refs)
	altSup := sumSupport(res.Support, res.Alts)

	row := []string{
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		v.Ref,
		strings.Join(v.Alts, ","),
		strconv.Itoa(refSup.Paired),
		strconv.Itoa(refSup.ForwardSingle),
		strconv.Itoa(refSup.ReverseSingle),
		strconv.Itoa(altSup.Paired),
		strconv.Itoa(altSup.ForwardSingle),
		strconv.Itoa(altSup.ReverseSingle),
		strconv.Itoa(res.FFPECount),
		strconv.FormatFloat(vaf, 'f', 2, 64),
		v.Ref + ">" + strings.Join(v.Alts, ","),
	}
	if err := sw.w.Write(row); err != nil {
		return err
	}
	sw.written++
	return nil
}

// Written returns the number of rows that passed the VAF filter.
func (sw *SummaryWriter) Written() int { return sw.written }

// Flush flushes buffered rows and reports any write error.
func (sw *SummaryWriter) Flush() error {
	sw.w.Flush()
	return sw.w.Error()
}

func sumSupport(sup classify.PositionSupport, alleles []classify.Symbol) classify.Support {
	var total classify.Support
	for _, a := range alleles {
		if s, ok := sup[a]; ok {
			total.Paired += s.Paired
			total.ForwardSingle += s.ForwardSingle
			total.ReverseSingle += s.ReverseSingle
		}
	}
	return total
}
