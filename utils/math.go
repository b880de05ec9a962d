package utils

// IsEqualApprox reports whether a and b differ by at most tolerance.
func IsEqualApprox(a, b, tolerance float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}
