package classify

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/fusac/fusac/internal/reads"
	"github.com/fusac/fusac/internal/vcf"
)

// SourceProvider opens independent read sources, one per worker. Sharing
// a single positional handle across workers would interleave seeks.
type SourceProvider interface {
	NewSource() (reads.Source, error)
}

// WorkItem holds a parsed variant record ready for classification.
type WorkItem struct {
	Seq     int
	Variant *vcf.Variant
}

// WorkResult holds the classification output for a single record.
type WorkResult struct {
	Seq     int
	Variant *vcf.Variant
	Result  *Result
	Err     error
}

// Runner processes variant records with a fixed worker pool. Each worker
// opens its own read source and classifies whole records end-to-end; a
// single collector consumes results in input order, preserving the
// one-writer invariant for the output VCF.
type Runner struct {
	Provider  SourceProvider
	Extractor Extractor
	Scope     Scope
	Workers   int // 0 means runtime.NumCPU()
	QueueSize int // work-queue capacity; 0 means 2*workers
	Logger    *zap.Logger
}

// Run reads records from the parser, classifies them in parallel and calls
// fn once per record in input order. Records that fail classification are
// delivered with Err set; fn decides how to handle them. A non-nil return
// from fn aborts the run.
func (r *Runner) Run(parser *vcf.Parser, fn func(WorkResult) error) error {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	queue := r.QueueSize
	if queue <= 0 {
		queue = 2 * workers
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	items := make(chan WorkItem, queue)
	var parseErr error

	// Producer: one goroutine feeds the bounded work queue and blocks when
	// it is full.
	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			items <- WorkItem{Seq: seq, Variant: v}
			seq++
		}
	}()

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			src, err := r.Provider.NewSource()
			if err != nil {
				// Fail every item this worker receives; the records are
				// still delivered so the collector can pass them through.
				for item := range items {
					results <- WorkResult{Seq: item.Seq, Variant: item.Variant, Err: err}
				}
				return
			}
			defer src.Close()

			proc := NewProcessor(src, r.Extractor, r.Scope)
			proc.SetLogger(logger)
			for item := range items {
				res, err := proc.Process(item.Variant)
				results <- WorkResult{Seq: item.Seq, Variant: item.Variant, Result: res, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	if err := OrderedCollect(results, fn); err != nil {
		return err
	}
	return parseErr
}

// OrderedCollect calls fn for each result in sequence-number order. It
// buffers out-of-order results in a pending map and emits them as soon as
// the next expected sequence number is available. Blocks until the results
// channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
