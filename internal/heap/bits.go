package heap

import "math"

func mathSignbit(f float64) bool { return math.Signbit(f) }
