package value

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/arloliu/fieldset/errs"
)

// Timeline is the time axis of a Container: either point samples or
// [start, stop) intervals, in seconds since timeconv.Epoch.
type Timeline struct {
	starts []float64
	stops  []float64 // nil for point samples
}

// Points builds a point-sample timeline. The input is copied.
func Points(times []float64) Timeline {
	return Timeline{starts: slices.Clone(times)}
}

// Intervals builds an interval timeline. The inputs are copied.
func Intervals(starts, stops []float64) Timeline {
	if stops == nil {
		stops = []float64{}
	}

	return Timeline{starts: slices.Clone(starts), stops: slices.Clone(stops)}
}

// Len returns the number of samples on the axis.
func (tl Timeline) Len() int {
	return len(tl.starts)
}

// IsInterval reports whether the timeline holds start/stop pairs.
func (tl Timeline) IsInterval() bool {
	return tl.stops != nil
}

// Starts returns a copy of the start axis. For point samples this is the
// sample times.
func (tl Timeline) Starts() []float64 {
	return slices.Clone(tl.starts)
}

// Stops returns a copy of the stop axis, or nil for point samples.
func (tl Timeline) Stops() []float64 {
	if tl.stops == nil {
		return nil
	}

	return slices.Clone(tl.stops)
}

// Start returns the start time of sample i.
func (tl Timeline) Start(i int) float64 {
	return tl.starts[i]
}

// Stop returns the stop time of sample i; for point samples it equals Start.
func (tl Timeline) Stop(i int) float64 {
	if tl.stops == nil {
		return tl.starts[i]
	}

	return tl.stops[i]
}

// Equal reports whether both timelines have the same kind and identical
// elements.
func (tl Timeline) Equal(other Timeline) bool {
	if tl.IsInterval() != other.IsInterval() {
		return false
	}

	return slices.Equal(tl.starts, other.starts) && slices.Equal(tl.stops, other.stops)
}

// floor returns the greatest i with starts[i] <= t. NaN has no floor.
func (tl Timeline) floor(t float64) (int, bool) {
	if math.IsNaN(t) {
		return -1, false
	}

	idx := sort.Search(len(tl.starts), func(i int) bool {
		return tl.starts[i] > t
	})

	return idx - 1, idx > 0
}

// covers reports whether t falls inside sample i. Point samples cover every
// instant up to the next sample.
func (tl Timeline) covers(i int, t float64) bool {
	if tl.stops == nil {
		return true
	}

	return t < tl.stops[i] || (tl.stops[i] == tl.starts[i] && t == tl.starts[i])
}

func (tl Timeline) slice(lo, hi int) Timeline {
	out := Timeline{starts: tl.starts[lo:hi:hi]}
	if tl.stops != nil {
		out.stops = tl.stops[lo:hi:hi]
	}

	return out
}

func (tl Timeline) filter(keep []bool) Timeline {
	n := countTrue(keep)
	out := Timeline{starts: make([]float64, 0, n)}
	if tl.stops != nil {
		out.stops = make([]float64, 0, n)
	}

	for i, k := range keep {
		if !k {
			continue
		}
		out.starts = append(out.starts, tl.starts[i])
		if tl.stops != nil {
			out.stops = append(out.stops, tl.stops[i])
		}
	}

	return out
}

func (tl Timeline) validate() error {
	if tl.stops != nil && len(tl.stops) != len(tl.starts) {
		return fmt.Errorf("%w: %d starts, %d stops", errs.ErrInvalidTimeline, len(tl.starts), len(tl.stops))
	}

	for i := range tl.starts {
		if math.IsNaN(tl.starts[i]) || (tl.stops != nil && math.IsNaN(tl.stops[i])) {
			return fmt.Errorf("%w: NaN time at %d", errs.ErrInvalidTimeline, i)
		}
		if i > 0 && tl.starts[i] < tl.starts[i-1] {
			return fmt.Errorf("%w: start[%d]=%v precedes start[%d]=%v",
				errs.ErrInvalidTimeline, i, tl.starts[i], i-1, tl.starts[i-1])
		}
		if tl.stops != nil && tl.stops[i] < tl.starts[i] {
			return fmt.Errorf("%w: stop[%d]=%v precedes start[%d]=%v",
				errs.ErrInvalidTimeline, i, tl.stops[i], i, tl.starts[i])
		}
	}

	return nil
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}

	return n
}
