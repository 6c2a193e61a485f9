package leave

import (
	"math"
	"time"
)

// ComputeDays returns the inclusive number of calendar days a leave spans.
// Argument order does not matter; callers validate end >= start separately.
func ComputeDays(start, end time.Time) int {
	diff := math.Abs(end.Sub(start).Hours())
	return int(math.Ceil(diff/24)) + 1
}
