package reads

import (
	"fmt"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
)

// Source fetches reads overlapping a half-open reference interval.
type Source interface {
	// Fetch returns all mapped reads overlapping [start, end) on chrom.
	Fetch(chrom string, start, end int) ([]*Read, error)

	// Close releases the underlying file handle.
	Close() error
}

// Provider opens independent Sources over one coordinate-sorted, indexed
// BAM file. Positional fetches through a shared handle would interleave
// seeks, so each worker must hold its own Source.
type Provider struct {
	path      string
	indexPath string
}

// NewProvider validates that the BAM and its .bai index exist and returns
// a provider for them.
func NewProvider(path string) (*Provider, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("bam file: %w", err)
	}
	indexPath := path + ".bai"
	if _, err := os.Stat(indexPath); err != nil {
		return nil, fmt.Errorf("bam index (expected %s): %w", indexPath, err)
	}
	return &Provider{path: path, indexPath: indexPath}, nil
}

// NewSource opens a fresh reader and index over the provider's BAM.
func (p *Provider) NewSource() (Source, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open bam: %w", err)
	}
	br, err := bam.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read bam header: %w", err)
	}

	ixf, err := os.Open(p.indexPath)
	if err != nil {
		br.Close()
		f.Close()
		return nil, fmt.Errorf("open bam index: %w", err)
	}
	idx, err := bam.ReadIndex(ixf)
	ixf.Close()
	if err != nil {
		br.Close()
		f.Close()
		return nil, fmt.Errorf("read bam index: %w", err)
	}

	src := &bamSource{file: f, reader: br, index: idx, refs: make(map[string]*sam.Reference)}
	for _, ref := range br.Header().Refs() {
		src.refs[ref.Name()] = ref
	}
	return src, nil
}

// bamSource serves positional fetches from one BAM reader. Not safe for
// concurrent use; workers each hold their own.
type bamSource struct {
	file   *os.File
	reader *bam.Reader
	index  *bam.Index
	refs   map[string]*sam.Reference
}

func (s *bamSource) Fetch(chrom string, start, end int) ([]*Read, error) {
	ref, ok := resolveReference(s.refs, chrom)
	if !ok {
		return nil, fmt.Errorf("reference %q not found in bam header", chrom)
	}

	chunks, err := lookupChunks(s.index, ref, start, end)
	if err != nil {
		return nil, fmt.Errorf("index lookup %s:%d-%d: %w", chrom, start, end, err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	it, err := bam.NewIterator(s.reader, chunks)
	if err != nil {
		return nil, fmt.Errorf("seek %s:%d-%d: %w", chrom, start, end, err)
	}

	var out []*Read
	for it.Next() {
		rec := it.Record()
		if rec.Flags&(sam.Unmapped|sam.Secondary|sam.Supplementary) != 0 {
			continue
		}
		// Chunks are bin-granular; keep only true overlaps.
		if rec.Pos >= end || rec.End() <= start {
			continue
		}
		out = append(out, NewRead(rec))
	}
	if err := it.Close(); err != nil {
		return nil, fmt.Errorf("iterate %s:%d-%d: %w", chrom, start, end, err)
	}
	return out, nil
}

// resolveReference finds a header reference by name, tolerating a
// chr-prefix mismatch between the caller and the BAM header in either
// direction.
func resolveReference(refs map[string]*sam.Reference, chrom string) (*sam.Reference, bool) {
	if ref, ok := refs[chrom]; ok {
		return ref, true
	}
	if ref, ok := refs["chr"+chrom]; ok {
		return ref, true
	}
	ref, ok := refs[strings.TrimPrefix(chrom, "chr")]
	return ref, ok
}

// chunkIndex is the positional-lookup surface of *bam.Index.
type chunkIndex interface {
	Chunks(r *sam.Reference, beg, end int) ([]bgzf.Chunk, error)
}

// lookupChunks resolves an interval to BGZF chunks. The index reports
// ErrInvalid for coordinates past the reference's last indexed interval
// and ErrNoReference for references absent from the index; both mean no
// reads cover the position, not a failure.
func lookupChunks(idx chunkIndex, ref *sam.Reference, start, end int) ([]bgzf.Chunk, error) {
	chunks, err := idx.Chunks(ref, start, end)
	if err == index.ErrInvalid || err == index.ErrNoReference {
		return nil, nil
	}
	return chunks, err
}

func (s *bamSource) Close() error {
	err := s.reader.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
