package profile

import (
	"errors"
	"math"
)

var (
	// ErrNoAnchor is returned by Fill when there isn't a single known elevation to fill from.
	ErrNoAnchor = errors.New("no elevation data retrieved at all")
	// ErrUnfilled means Fill left a gap behind, which is a bug.
	ErrUnfilled = errors.New("elevations still missing after fill")
)

// Elevations in feet, one per path point. A nil entry is a pending or failed lookup.
type Elevations []*int

// Missing counts the nil entries.
func (e Elevations) Missing() int {
	var n int
	for _, v := range e {
		if v == nil {
			n++
		}
	}
	return n
}

// Fill returns a copy with every gap filled. Gaps between two known values are linearly interpolated by
// index and rounded. Gaps before the first known value take the first value, and gaps after the last
// known value take the last value.
func Fill(elevations Elevations) (Elevations, error) {
	n := len(elevations)
	result := make(Elevations, n)
	copy(result, elevations)

	first := -1
	for i, v := range result {
		if v != nil {
			first = i
			break
		}
	}
	if first == -1 {
		return nil, ErrNoAnchor
	}

	for i := 0; i < first; i++ {
		result[i] = intp(*result[first])
	}

	for i := first; i < n; {
		if result[i] != nil {
			i++
			continue
		}
		// result[i-1] is known because i > first
		left := *result[i-1]
		j := i + 1
		for j < n && result[j] == nil {
			j++
		}
		if j < n {
			right := *result[j]
			span := float64(j - (i - 1))
			for k := i; k < j; k++ {
				t := float64(k-(i-1)) / span
				result[k] = intp(int(math.Round(float64(left) + t*float64(right-left))))
			}
		} else {
			for k := i; k < n; k++ {
				result[k] = intp(left)
			}
		}
		i = j
	}

	if result.Missing() > 0 {
		return nil, ErrUnfilled
	}
	return result, nil
}

func intp(v int) *int {
	return &v
}
