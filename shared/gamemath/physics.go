package gamemath

import "math"

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	if speed > max {
		return max
	}
	if speed < -max {
		return -max
	}
	return speed
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Lerp interpolates between from and to by t.
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// Integrate advances a position under constant acceleration for dt seconds
// and returns the displacement and the new velocity.
func Integrate(v, accel, dt float64) (delta, newV float64) {
	delta = v*dt + 0.5*accel*dt*dt
	return delta, v + accel*dt
}
