package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusac/fusac/internal/classify"
	"github.com/fusac/fusac/internal/vcf"
)

func TestParseVAFRange(t *testing.T) {
	r, err := ParseVAFRange("0,100")
	require.NoError(t, err)
	assert.Equal(t, FullVAFRange, r)

	r, err = ParseVAFRange(" 12.5 , 37.5 ")
	require.NoError(t, err)
	assert.Equal(t, VAFRange{Low: 12.5, High: 37.5}, r)
}

func TestParseVAFRange_Invalid(t *testing.T) {
	for _, s := range []string{"", "50", "10,20,30", "a,b", "80,20"} {
		_, err := ParseVAFRange(s)
		assert.Error(t, err, "range %q", s)
	}
}

func TestVAFRange_Contains(t *testing.T) {
	r := VAFRange{Low: 10, High: 90}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(50))
	assert.True(t, r.Contains(90))
	assert.False(t, r.Contains(9.99))
	assert.False(t, r.Contains(90.01))
}

func summaryFixture() (*vcf.Variant, *classify.Result) {
	v := &vcf.Variant{
		Chrom: "8",
		Pos:   117868499,
		Ref:   "C",
		Alts:  []string{"T"},
	}
	res := &classify.Result{
		Refs: []classify.Symbol{classify.SymbolC},
		Alts: []classify.Symbol{classify.SymbolT},
		Support: classify.PositionSupport{
			classify.SymbolC: {Paired: 3, ForwardSingle: 1},
			classify.SymbolT: {Paired: 1, ReverseSingle: 2},
		},
		FFPECount: 1,
	}
	return v, res
}

func TestSummaryWriter_WritesRow(t *testing.T) {
	var buf strings.Builder
	sw := NewSummaryWriter(&buf, FullVAFRange)

	require.NoError(t, sw.WriteHeader())
	v, res := summaryFixture()
	require.NoError(t, sw.WriteRecord(v, res))
	require.NoError(t, sw.Flush())

	assert.Equal(t, 1, sw.Written())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"chrom,pos,ref,alt,ref_paired,ref_single_forward,ref_single_reverse,"+
			"alt_paired,alt_single_forward,alt_single_reverse,"+
			"ffpe_molecules,ffpe_vaf,substitution",
		lines[0])
	assert.Equal(t, "8,117868499,C,T,3,1,0,1,0,2,1,25.00,C>T", lines[1])
}

func TestSummaryWriter_VAFFilter(t *testing.T) {
	v, res := summaryFixture() // vaf = 25.00

	var buf strings.Builder
	sw := NewSummaryWriter(&buf, VAFRange{Low: 30, High: 100})
	require.NoError(t, sw.WriteRecord(v, res))
	require.NoError(t, sw.Flush())
	assert.Zero(t, sw.Written())
	assert.Empty(t, buf.String())

	buf.Reset()
	sw = NewSummaryWriter(&buf, VAFRange{Low: 25, High: 25})
	require.NoError(t, sw.WriteRecord(v, res))
	require.NoError(t, sw.Flush())
	assert.Equal(t, 1, sw.Written())
}

func TestSummaryWriter_MultiallelicSumsAltSupport(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "T", Alts: []string{"C", "G"}}
	res := &classify.Result{
		Refs: []classify.Symbol{classify.SymbolT},
		Alts: []classify.Symbol{classify.SymbolC, classify.SymbolG},
		Support: classify.PositionSupport{
			classify.SymbolT: {Paired: 2},
			classify.SymbolC: {Paired: 1},
			classify.SymbolG: {Paired: 1, ForwardSingle: 1},
		},
	}

	var buf strings.Builder
	sw := NewSummaryWriter(&buf, FullVAFRange)
	require.NoError(t, sw.WriteRecord(v, res))
	require.NoError(t, sw.Flush())

	line := strings.TrimRight(buf.String(), "\n")
	assert.Equal(t, "1,100,T,\"C,G\",2,0,0,2,1,0,0,50.00,\"T>C,G\"", line)
}
