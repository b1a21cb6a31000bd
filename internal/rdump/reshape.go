package rdump

// Column-major enumeration varies the first index fastest; row-major
// storage varies the last index fastest. Both helpers walk the
// column-major multi-index and map it to the row-major linear position.

// toColumnMajor flattens row-major elements into column-major order.
func toColumnMajor(elems []float64, dims []int) []float64 {
	if len(dims) < 2 {
		out := make([]float64, len(elems))
		copy(out, elems)
		return out
	}
	out := make([]float64, len(elems))
	idx := make([]int, len(dims))
	for k := range out {
		out[k] = elems[rowMajorPos(idx, dims)]
		stepColumnMajor(idx, dims)
	}
	return out
}

// fromColumnMajor reshapes a column-major flat list into row-major
// storage.
func fromColumnMajor(elems []float64, dims []int) []float64 {
	if len(dims) < 2 {
		out := make([]float64, len(elems))
		copy(out, elems)
		return out
	}
	out := make([]float64, len(elems))
	idx := make([]int, len(dims))
	for k := range elems {
		out[rowMajorPos(idx, dims)] = elems[k]
		stepColumnMajor(idx, dims)
	}
	return out
}

func rowMajorPos(idx, dims []int) int {
	p := idx[0]
	for j := 1; j < len(dims); j++ {
		p = p*dims[j] + idx[j]
	}
	return p
}

func stepColumnMajor(idx, dims []int) {
	for j := 0; j < len(dims); j++ {
		idx[j]++
		if idx[j] < dims[j] {
			return
		}
		idx[j] = 0
	}
}
