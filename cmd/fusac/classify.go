package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fusac/fusac/internal/classify"
	"github.com/fusac/fusac/internal/output"
	"github.com/fusac/fusac/internal/reads"
	"github.com/fusac/fusac/internal/vcf"
)

func runClassify(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)

	var (
		bamPath    string
		vcfPath    string
		outputPath string
		csvPath    string
		workers    int
		queueSize  int
		ffpeScope  string
		umiSource  string
		qnameSplit string
		umiSplit   string
		vafRange   string
	)

	fs.StringVar(&bamPath, "b", "", "Input BAM file, coordinate sorted and indexed (required)")
	fs.StringVar(&bamPath, "bam", "", "Input BAM file, coordinate sorted and indexed (required)")
	fs.StringVar(&vcfPath, "v", "", "Input VCF file (required, use '-' for stdin)")
	fs.StringVar(&vcfPath, "vcf", "", "Input VCF file (required, use '-' for stdin)")
	fs.StringVar(&outputPath, "o", "", "Output VCF file (default: stdout)")
	fs.StringVar(&outputPath, "output", "", "Output VCF file (default: stdout)")
	fs.StringVar(&csvPath, "csv", "", "Write a CSV summary of classified records to this path")
	fs.IntVar(&workers, "threads", viper.GetInt("classify.threads"), "Number of worker threads (0 = all CPUs)")
	fs.IntVar(&queueSize, "queue-size", viper.GetInt("classify.queue-size"), "Work queue capacity (0 = 2x threads)")
	fs.StringVar(&ffpeScope, "ffpe-scope", viper.GetString("classify.ffpe-scope"),
		"Substitutions eligible for FFPE calls: deamination (C:G>T:A only) or all")
	fs.StringVar(&umiSource, "umi-source", viper.GetString("classify.umi-source"),
		"Where the UMI pair is read from: qname or rx")
	fs.StringVar(&qnameSplit, "qname-split", viper.GetString("classify.qname-split"),
		"Character separating the UMI from the query name")
	fs.StringVar(&umiSplit, "umi-split", viper.GetString("classify.umi-split"),
		"Character separating the two UMI barcodes (empty = split in half)")
	fs.StringVar(&vafRange, "vaf-range", "0,100",
		"Inclusive FFPE VAF percentage range for the CSV summary, as low,high")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Classify candidate SNVs as mutations or FFPE artifacts.

For every variant record, reads overlapping the position are grouped into
UMI-defined molecules. Molecules with alternate-allele support on both
strands confirm a mutation; support on one strand only marks an FFPE
artifact, adding the FFPE filter to the record. Under the default
--ffpe-scope deamination, only C>T and G>A substitutions are eligible for
the artifact verdict; pass --ffpe-scope all to admit every substitution
type. Per-allele molecular support is written to the UMI and SUMI sample
fields.

Usage:
  fusac classify [options] -b input.bam -v input.vcf

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if bamPath == "" || vcfPath == "" {
		fmt.Fprintf(os.Stderr, "Error: both --bam and --vcf are required\n\n")
		fs.Usage()
		return ExitUsage
	}

	extractor, err := newExtractor(umiSource, qnameSplit, umiSplit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}
	scope, err := parseScope(ffpeScope)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	provider, err := reads.NewProvider(bamPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: index the BAM with 'samtools index %s'\n", bamPath)
		return ExitError
	}

	parser, err := vcf.NewParser(vcfPath)
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

	writer := output.NewVCFWriter(out)
	if err := writer.WriteHeader(parser.Header()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		return ExitError
	}

	var summary *output.SummaryWriter
	if csvPath != "" {
		vafs, err := output.ParseVAFRange(vafRange)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitUsage
		}
		csvFile, err := os.Create(csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating csv file: %v\n", err)
			return ExitError
		}
		defer csvFile.Close()
		summary = output.NewSummaryWriter(csvFile, vafs)
		if err := summary.WriteHeader(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing csv header: %v\n", err)
			return ExitError
		}
	}

	runner := &classify.Runner{
		Provider:  provider,
		Extractor: extractor,
		Scope:     scope,
		Workers:   workers,
		QueueSize: queueSize,
		Logger:    logger,
	}

	classified, skipped, ffpe := 0, 0, 0
	err = runner.Run(parser, func(r classify.WorkResult) error {
		if r.Err != nil {
			// Record-level failures pass the record through unannotated.
			logger.Warn("skipping record",
				zap.String("chrom", r.Variant.Chrom),
				zap.Int64("pos", r.Variant.Pos),
				zap.Error(r.Err))
			skipped++
			return writer.WriteRecord(r.Variant)
		}

		classify.Annotate(r.Variant, r.Result)
		classified++
		if r.Result.HasFFPE() {
			ffpe++
		}
		if summary != nil {
			if err := summary.WriteRecord(r.Variant, r.Result); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		return writer.WriteRecord(r.Variant)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}
	if summary != nil {
		if err := summary.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing csv: %v\n", err)
			return ExitError
		}
	}

	logger.Info("classification complete",
		zap.Int("classified", classified),
		zap.Int("skipped", skipped),
		zap.Int("ffpe_flagged", ffpe))

	return ExitSuccess
}

func newExtractor(source, qnameSplit, umiSplit string) (classify.Extractor, error) {
	e := classify.Extractor{QNameSep: qnameSplit, UMISep: umiSplit}
	switch source {
	case "", "qname":
		e.Source = classify.UMIFromQueryName
	case "rx":
		e.Source = classify.UMIFromRXTag
	default:
		return e, fmt.Errorf("unknown umi source %q (expected qname or rx)", source)
	}
	if e.Source == classify.UMIFromQueryName && e.QNameSep == "" {
		e.QNameSep = "_"
	}
	return e, nil
}

func parseScope(s string) (classify.Scope, error) {
	switch s {
	case "", "deamination", "standard":
		return classify.ScopeDeamination, nil
	case "all":
		return classify.ScopeAll, nil
	default:
		return 0, fmt.Errorf("unknown ffpe scope %q (expected deamination or all)", s)
	}
}
