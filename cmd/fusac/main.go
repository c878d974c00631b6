// Package main provides the fusac command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	var verbose bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	if showVersion {
		fmt.Printf("fusac version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	initConfig()
	logger := newLogger(verbose)
	defer logger.Sync()

	switch args[0] {
	case "classify":
		return runClassify(args[1:], logger)
	case "summarize":
		return runSummarize(args[1:], logger)
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// newLogger builds a console logger writing to stderr so diagnostics never
// mix with VCF output on stdout.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `fusac - FFPE-tissue UMI-based Sequence Artefact Classifier

Classifies candidate somatic SNVs as genuine mutations or FFPE deamination
artifacts using UMI tags in paired-end sequencing reads.

Usage:
  fusac [options] <command> [arguments]

Commands:
  classify    Classify variants in a VCF against an indexed BAM
  summarize   Produce a CSV summary from an annotated VCF
  config      Manage fusac configuration (~/.fusac.yaml)
  help        Show this help message

Global Options:
  --version   Show version information
  --verbose   Enable debug logging

Examples:
  # Classify variants, writing the annotated VCF to output.vcf
  fusac classify -b sample.bam -v calls.vcf -o output.vcf

  # Classify with 8 workers and a CSV summary of FFPE-flagged records
  fusac classify -b sample.bam -v calls.vcf -o output.vcf --threads 8 --csv summary.csv

  # Summarize a previously annotated VCF, keeping VAFs between 5%% and 95%%
  fusac summarize --vaf-range 5,95 output.vcf

For more information on a command, use:
  fusac <command> --help
`)
}
