package vcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSNV(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		alts []string
		want bool
	}{
		{"simple substitution", "C", []string{"T"}, true},
		{"multiallelic substitutions", "C", []string{"T", "G"}, true},
		{"insertion", "C", []string{"CT"}, false},
		{"deletion", "CT", []string{"C"}, false},
		{"mixed alts", "C", []string{"T", "CA"}, false},
		{"no alts", "C", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Ref: tt.ref, Alts: tt.alts}
			assert.Equal(t, tt.want, v.IsSNV())
		})
	}
}

func TestAddFilter(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		want    string
	}{
		{"replaces PASS", "PASS", "FFPE"},
		{"replaces dot", ".", "FFPE"},
		{"replaces empty", "", "FFPE"},
		{"appends to existing", "q10", "q10;FFPE"},
		{"no duplicate", "FFPE", "FFPE"},
		{"no duplicate in list", "q10;FFPE", "q10;FFPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Filter: tt.initial}
			v.AddFilter("FFPE")
			assert.Equal(t, tt.want, v.Filter)
		})
	}
}

func TestHasFilter(t *testing.T) {
	v := &Variant{Filter: "q10;FFPE"}
	assert.True(t, v.HasFilter("FFPE"))
	assert.True(t, v.HasFilter("q10"))
	assert.False(t, v.HasFilter("q1"))

	assert.False(t, (&Variant{Filter: "PASS"}).HasFilter("FFPE"))
}

func TestSetSampleValue(t *testing.T) {
	v := &Variant{
		Format:  []string{"GT", "DP"},
		Samples: []string{"0/1:30", "0/0:25"},
	}

	v.SetSampleValue("UMI", "2,0,1")

	assert.Equal(t, []string{"GT", "DP", "UMI"}, v.Format)
	assert.Equal(t, []string{"0/1:30:2,0,1", "0/0:25:2,0,1"}, v.Samples)
}

func TestSetSampleValue_EmptySample(t *testing.T) {
	v := &Variant{
		Format:  []string{"GT"},
		Samples: []string{"."},
	}

	v.SetSampleValue("UMI", "1,0,0")
	assert.Equal(t, []string{"1,0,0"}, v.Samples)
}

func TestSetSampleValue_NoSamples(t *testing.T) {
	v := &Variant{}
	v.SetSampleValue("UMI", "1,0,0")
	assert.Nil(t, v.Format)
}

func TestSampleValue(t *testing.T) {
	v := &Variant{
		Format:  []string{"GT", "UMI"},
		Samples: []string{"0/1:2,0,1", "0/0:4,1,0"},
	}

	got, ok := v.SampleValue("UMI", 0)
	require.True(t, ok)
	assert.Equal(t, "2,0,1", got)

	got, ok = v.SampleValue("UMI", 1)
	require.True(t, ok)
	assert.Equal(t, "4,1,0", got)

	_, ok = v.SampleValue("DP", 0)
	assert.False(t, ok)
	_, ok = v.SampleValue("UMI", 2)
	assert.False(t, ok)
	_, ok = v.SampleValue("UMI", -1)
	assert.False(t, ok)
}

func TestSampleValue_AfterTwoAnnotations(t *testing.T) {
	// Two appended annotation fields must both survive the colon split of
	// the sample column.
	v := &Variant{
		Format:  []string{"GT"},
		Samples: []string{"0/1"},
	}
	v.SetSampleValue("UMI", "1,0,0;1,0,0")
	v.SetSampleValue("SUMI", "0,0;0,0")

	umi, ok := v.SampleValue("UMI", 0)
	require.True(t, ok)
	assert.Equal(t, "1,0,0;1,0,0", umi)
	sumi, ok := v.SampleValue("SUMI", 0)
	require.True(t, ok)
	assert.Equal(t, "0,0;0,0", sumi)
}

func TestSampleValue_TruncatedSample(t *testing.T) {
	v := &Variant{
		Format:  []string{"GT", "UMI"},
		Samples: []string{"0/1"},
	}
	_, ok := v.SampleValue("UMI", 0)
	assert.False(t, ok)
}

func TestNormalizeChrom(t *testing.T) {
	assert.Equal(t, "8", (&Variant{Chrom: "chr8"}).NormalizeChrom())
	assert.Equal(t, "8", (&Variant{Chrom: "8"}).NormalizeChrom())
	assert.Equal(t, "X", (&Variant{Chrom: "chrX"}).NormalizeChrom())
	assert.Equal(t, "chr", (&Variant{Chrom: "chr"}).NormalizeChrom())
}
