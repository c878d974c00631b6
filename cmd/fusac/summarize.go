package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fusac/fusac/internal/classify"
	"github.com/fusac/fusac/internal/output"
	"github.com/fusac/fusac/internal/vcf"
)

func runSummarize(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("summarize", flag.ExitOnError)

	var (
		outputPath string
		vafRange   string
	)

	fs.StringVar(&outputPath, "o", "", "Output CSV file (default: stdout)")
	fs.StringVar(&outputPath, "output", "", "Output CSV file (default: stdout)")
	fs.StringVar(&vafRange, "vaf-range", "0,100",
		"Inclusive FFPE VAF percentage range, as low,high")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Produce a CSV summary from a fusac-annotated VCF.

Reads the UMI sample field written by 'fusac classify' and emits one row
per record with the reference and variant molecular support, the FFPE
flag, the FFPE variant-allele fraction, and the substitution type.

Usage:
  fusac summarize [options] <annotated.vcf>

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: annotated VCF argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	vafs, err := output.ParseVAFRange(vafRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	parser, err := vcf.NewParser(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer parser.Close()

	out := os.Stdout
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	writer := output.NewSummaryWriter(out, vafs)
	if err := writer.WriteHeader(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		return ExitError
	}

	records := 0
	for {
		v, err := parser.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading variant: %v\n", err)
			return ExitError
		}
		if v == nil {
			break
		}
		records++

		res, err := resultFromRecord(v)
		if err != nil {
			logger.Warn("skipping record without usable UMI annotation",
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.Error(err))
			continue
		}
		if err := writer.WriteRecord(v, res); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing row: %v\n", err)
			return ExitError
		}
	}

	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	logger.Info("summary complete",
		zap.Int("records", records),
		zap.Int("rows", writer.Written()))

	return ExitSuccess
}

// resultFromRecord reconstructs per-allele support from the UMI sample
// field of an annotated record. The FFPE molecule count is not recoverable
// from the VCF; the FFPE filter flag stands in for it.
func resultFromRecord(v *vcf.Variant) (*classify.Result, error) {
	value, ok := v.SampleValue(classify.FormatUMI, 0)
	if !ok {
		return nil, fmt.Errorf("no %s sample field", classify.FormatUMI)
	}
	triples, err := classify.ParseUMIValue(value)
	if err != nil {
		return nil, err
	}

	refs := classify.SymbolsFromAlleles([]string{v.Ref})
	alts := classify.SymbolsFromAlleles(v.Alts)
	if len(triples) != len(refs)+len(alts) {
		return nil, fmt.Errorf("%s field has %d entries, record has %d alleles",
			classify.FormatUMI, len(triples), len(refs)+len(alts))
	}

	sup := make(classify.PositionSupport, len(triples))
	for i, a := range alts {
		s := triples[i]
		sup[a] = &s
	}
	for i, ref := range refs {
		s := triples[len(alts)+i]
		sup[ref] = &s
	}

	res := &classify.Result{Refs: refs, Alts: alts, Support: sup}
	if v.HasFilter(classify.FilterFFPE) {
		res.FFPECount = 1
	}
	return res, nil
}
