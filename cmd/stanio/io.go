package main

import (
	"fmt"
	"io"
	"os"
)

// readLimited reads a whole input file, refusing anything larger than the
// configured cap.
func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lr := &io.LimitedReader{R: f, N: limit + 1}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("input %s exceeds max_input_bytes (%d)", path, limit)
	}
	return b, nil
}
