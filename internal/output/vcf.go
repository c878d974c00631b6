// Package output provides writers for the annotated VCF and the derived
// CSV summary.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/fusac/fusac/internal/vcf"
)

// Header lines injected into the output VCF for the classifier's
// annotations.
var annotationHeaderLines = []string{
	`##FILTER=<ID=FFPE,Description="FFPE artefact">`,
	`##FORMAT=<ID=UMI,Number=.,Type=String,Description="Paired,SingleForward,SingleReverse molecular support, variant allele(s) then reference allele(s)">`,
	`##FORMAT=<ID=SUMI,Number=.,Type=String,Description="SingleForward,SingleReverse singleton support, variant allele(s) then reference allele(s)">`,
}

// VCFWriter writes annotated variant records, reproducing the input
// header with the FFPE filter and UMI format declarations inserted before
// the #CHROM line.
type VCFWriter struct {
	w *bufio.Writer
}

// NewVCFWriter creates a writer over w.
func NewVCFWriter(w io.Writer) *VCFWriter {
	return &VCFWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the original header lines with the annotation
// declarations inserted.
func (vw *VCFWriter) WriteHeader(headerLines []string) error {
	for _, line := range headerLines {
		if strings.HasPrefix(line, "#CHROM") {
			for _, meta := range annotationHeaderLines {
				if _, err := vw.w.WriteString(meta + "\n"); err != nil {
					return err
				}
			}
		}
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes one variant record as a VCF data line.
func (vw *VCFWriter) WriteRecord(v *vcf.Variant) error {
	var lb strings.Builder
	lb.Grow(128)

	lb.WriteString(v.Chrom)
	lb.WriteByte('\t')
	lb.WriteString(strconv.FormatInt(v.Pos, 10))
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.ID))
	lb.WriteByte('\t')
	lb.WriteString(v.Ref)
	lb.WriteByte('\t')
	lb.WriteString(strings.Join(v.Alts, ","))
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.Qual))
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.Filter))
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.Info))
	if len(v.Samples) > 0 {
		lb.WriteByte('\t')
		lb.WriteString(strings.Join(v.Format, ":"))
		for _, s := range v.Samples {
			lb.WriteByte('\t')
			lb.WriteString(s)
		}
	}
	lb.WriteByte('\n')

	_, err := vw.w.WriteString(lb.String())
	return err
}

// Flush flushes buffered output.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
