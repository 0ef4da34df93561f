package emath

import "golang.org/x/exp/constraints"

// Some functions that only operate on basic types, that are useful

// Rec601Luma are the perceived-brightness weights for R, G and B.
var Rec601Luma = Vec3{0.299, 0.587, 0.114}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo { return lo }
	if v > hi { return hi }
	return v
}
