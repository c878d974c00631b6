// Package vcf provides VCF parsing and writing for variant records whose
// FILTER and FORMAT fields the classifier annotates in place.
package vcf

import "strings"

// Variant represents a single variant record. Columns the classifier does
// not touch are kept as their raw strings so records round-trip unchanged
// apart from the annotation.
type Variant struct {
	Chrom   string   // chromosome name (e.g. "8", "chr8")
	Pos     int64    // 1-based position
	ID      string   // variant identifier or "."
	Ref     string   // reference allele string
	Alts    []string // alternate allele strings
	Qual    string   // raw QUAL column
	Filter  string   // raw FILTER column
	Info    string   // raw INFO column
	Format  []string // FORMAT keys, nil when the record has no samples
	Samples []string // raw per-sample columns, parallel to the header's samples
}

// IsSNV reports whether every ref and alt allele is a single base.
func (v *Variant) IsSNV() bool {
	if len(v.Ref) != 1 || len(v.Alts) == 0 {
		return false
	}
	for _, alt := range v.Alts {
		if len(alt) != 1 {
			return false
		}
	}
	return true
}

// AddFilter adds a filter name to the FILTER column, replacing PASS or "."
// and preserving any existing entries.
func (v *Variant) AddFilter(name string) {
	switch v.Filter {
	case "", ".", "PASS":
		v.Filter = name
		return
	}
	for _, f := range strings.Split(v.Filter, ";") {
		if f == name {
			return
		}
	}
	v.Filter += ";" + name
}

// HasFilter reports whether the FILTER column contains the given name.
func (v *Variant) HasFilter(name string) bool {
	for _, f := range strings.Split(v.Filter, ";") {
		if f == name {
			return true
		}
	}
	return false
}

// SetSampleValue appends a FORMAT key carrying the same value for every
// sample. Records without sample columns are left unchanged.
func (v *Variant) SetSampleValue(key, value string) {
	if len(v.Samples) == 0 {
		return
	}
	v.Format = append(v.Format, key)
	for i, s := range v.Samples {
		if s == "" || s == "." {
			v.Samples[i] = value
		} else {
			v.Samples[i] = s + ":" + value
		}
	}
}

// SampleValue returns the value of a FORMAT key for the given sample
// index, or false if the key or sample is absent.
func (v *Variant) SampleValue(key string, sample int) (string, bool) {
	if sample < 0 || sample >= len(v.Samples) {
		return "", false
	}
	for i, k := range v.Format {
		if k != key {
			continue
		}
		fields := strings.Split(v.Samples[sample], ":")
		if i >= len(fields) {
			return "", false
		}
		return fields[i], true
	}
	return "", false
}

// NormalizeChrom returns the chromosome name without a "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}
