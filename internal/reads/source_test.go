package reads

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChunkIndex struct {
	chunks []bgzf.Chunk
	err    error
}

func (f fakeChunkIndex) Chunks(r *sam.Reference, beg, end int) ([]bgzf.Chunk, error) {
	return f.chunks, f.err
}

func TestLookupChunks(t *testing.T) {
	want := []bgzf.Chunk{{Begin: bgzf.Offset{File: 0}, End: bgzf.Offset{File: 100}}}
	got, err := lookupChunks(fakeChunkIndex{chunks: want}, nil, 100, 101)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLookupChunks_PastIndexedIntervalIsEmpty(t *testing.T) {
	// Coordinates beyond the last indexed interval report ErrInvalid,
	// which is an empty fetch rather than a failure.
	got, err := lookupChunks(fakeChunkIndex{err: index.ErrInvalid}, nil, 1e9, 1e9+1)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = lookupChunks(fakeChunkIndex{err: index.ErrNoReference}, nil, 100, 101)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLookupChunks_PropagatesOtherErrors(t *testing.T) {
	lookupErr := errors.New("corrupt index")
	_, err := lookupChunks(fakeChunkIndex{err: lookupErr}, nil, 100, 101)
	assert.ErrorIs(t, err, lookupErr)
}

func TestResolveReference(t *testing.T) {
	plain, err := sam.NewReference("8", "", "", 146364022, nil, nil)
	require.NoError(t, err)
	prefixed, err := sam.NewReference("chrX", "", "", 156040895, nil, nil)
	require.NoError(t, err)
	refs := map[string]*sam.Reference{"8": plain, "chrX": prefixed}

	got, ok := resolveReference(refs, "8")
	require.True(t, ok)
	assert.Equal(t, plain, got)

	// Caller uses a chr prefix the header lacks.
	got, ok = resolveReference(refs, "chr8")
	require.True(t, ok)
	assert.Equal(t, plain, got)

	// Header uses a chr prefix the caller lacks.
	got, ok = resolveReference(refs, "X")
	require.True(t, ok)
	assert.Equal(t, prefixed, got)

	_, ok = resolveReference(refs, "22")
	assert.False(t, ok)
}

func TestNewProvider_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := NewProvider(filepath.Join(dir, "absent.bam"))
	assert.Error(t, err)

	bamPath := filepath.Join(dir, "sample.bam")
	require.NoError(t, os.WriteFile(bamPath, []byte{}, 0o644))
	_, err = NewProvider(bamPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".bai")
}
