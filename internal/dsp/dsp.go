// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the small numeric helpers shared by the engine and the
// format packages.
package dsp

import "math"

// CubicInterpolate performs Catmull-Rom interpolation between y1 and y2.
// x is the fractional position between y1 and y2 (0 <= x <= 1); y0 and y3
// are the outer neighbours.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*x+a1)*x+a2)*x + y1
}

// Float32ToInt16 clamps x to [-1,1] and scales it to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// DBToGain converts a level in decibels to a linear amplitude factor.
func DBToGain(db float64) float32 {
	return float32(math.Pow(10, db/20))
}

// Pan returns equal-power left/right gains for p in [-1,1], where -1 is hard
// left. The centre position yields unity on both sides.
func Pan(p float64) (float32, float32) {
	p = min(max(p, -1), 1)
	angle := (p + 1) * math.Pi / 4
	return float32(math.Cos(angle) * math.Sqrt2), float32(math.Sin(angle) * math.Sqrt2)
}
