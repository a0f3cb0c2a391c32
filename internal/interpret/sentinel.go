package interpret

import "math"

// NullValue is the reading that stands for "no measurement".
const NullValue = -9999.0

// IsValid reports whether v is a real measurement: a finite number other than NullValue.
func IsValid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != NullValue
}
