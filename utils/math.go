package utils

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SignOrOne returns -1 for negative inputs and 1 otherwise.
func SignOrOne(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
