package api

// CheckOptions controls how a run-output file is scanned and validated.
type CheckOptions struct {
	// Sampling enables the adaptation/metric section scan.
	Sampling bool
	// Optimizing expects exactly one draw row instead of the count implied
	// by num_samples and thin.
	Optimizing bool
}

// DefaultCheckOptions matches an ordinary sampling run.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{Sampling: true}
}
