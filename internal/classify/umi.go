package classify

import (
	"fmt"
	"strings"

	"github.com/fusac/fusac/internal/reads"
)

// UMISource selects where the UMI pair is read from.
type UMISource int

const (
	// UMIFromQueryName extracts the UMI from the last query-name field.
	UMIFromQueryName UMISource = iota
	// UMIFromRXTag extracts the UMI from the RX aux tag.
	UMIFromRXTag
)

// MalformedUMIError reports a read whose identifier could not be parsed
// into a UMI barcode pair. The read is skipped rather than grouped under a
// guessed key.
type MalformedUMIError struct {
	Read   string
	Reason string
}

func (e *MalformedUMIError) Error() string {
	return fmt.Sprintf("malformed umi in read %q: %s", e.Read, e.Reason)
}

// Extractor pulls the two UMI barcodes from a read.
//
// With UMIFromQueryName the query name is split on QNameSep and the last
// field taken as the UMI; the UMI itself is then split on UMISep into the
// left and right barcodes. An empty UMISep splits the UMI at its midpoint,
// which is also how RX tags are handled.
type Extractor struct {
	Source   UMISource
	QNameSep string
	UMISep   string
}

// DefaultExtractor matches the common read-name convention
// "<name>_<left>+<right>".
func DefaultExtractor() Extractor {
	return Extractor{Source: UMIFromQueryName, QNameSep: "_", UMISep: "+"}
}

// Extract returns the left and right UMI barcodes of a read.
func (e Extractor) Extract(r *reads.Read) (left, right string, err error) {
	var umi string
	switch e.Source {
	case UMIFromRXTag:
		tag, ok := r.AuxString("RX")
		if !ok {
			return "", "", &MalformedUMIError{Read: r.Name(), Reason: "no RX tag"}
		}
		umi = tag
	default:
		fields := strings.Split(r.Name(), e.QNameSep)
		if len(fields) < 2 {
			return "", "", &MalformedUMIError{
				Read:   r.Name(),
				Reason: fmt.Sprintf("no %q separator in query name", e.QNameSep),
			}
		}
		umi = fields[len(fields)-1]
	}
	return e.splitBarcodes(r.Name(), umi)
}

func (e Extractor) splitBarcodes(name, umi string) (string, string, error) {
	sep := e.UMISep
	if e.Source == UMIFromRXTag {
		sep = ""
	}
	if sep == "" {
		if len(umi) < 2 {
			return "", "", &MalformedUMIError{Read: name, Reason: "umi too short to split in half"}
		}
		mid := len(umi) / 2
		return umi[:mid], umi[mid:], nil
	}
	parts := strings.Split(umi, sep)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &MalformedUMIError{
			Read:   name,
			Reason: fmt.Sprintf("expected two barcodes separated by %q, got %q", sep, umi),
		}
	}
	return parts[0], parts[1], nil
}
