package runcsv

import (
	"fmt"
	"io"
	"math"

	"stanio/pkg/api"
)

// Validate cross-checks the observed draw count against the count the
// configuration implies: one row for an optimization run, otherwise
// ceil(num_samples/thin). The metadata itself is left untouched.
func Validate(md *Metadata, optimizing bool) error {
	expected := 1
	if !optimizing {
		expected = int(math.Ceil(float64(md.NumSamples()) / float64(md.Thin())))
	}
	if md.Draws != expected {
		return &api.FormatError{
			Source: md.Source, Kind: api.KindDrawCountMismatch,
			Expect: fmt.Sprintf("%d draws", expected),
			Found:  fmt.Sprintf("%d draws", md.Draws),
		}
	}
	return nil
}

// Check scans a run-output stream and validates its draw count in one
// call.
func Check(r io.Reader, name string, opts api.CheckOptions) (*Metadata, error) {
	md, err := Scan(r, name, opts.Sampling)
	if err != nil {
		return nil, err
	}
	if err := Validate(md, opts.Optimizing); err != nil {
		return nil, err
	}
	return md, nil
}
