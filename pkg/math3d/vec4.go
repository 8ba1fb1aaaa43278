package math3d

// Vec4 represents a 4D vector. Splat masks and pixel weights use it as an
// (R, G, B, A) tuple.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Components returns the vector as an array in X, Y, Z, W order.
func (v Vec4) Components() [4]float64 {
	return [4]float64{v.X, v.Y, v.Z, v.W}
}

// IsZero reports whether all four components are exactly zero.
func (v Vec4) IsZero() bool {
	return v == Vec4{}
}
