package value

import (
	"fmt"
	"math"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/internal/pool"
	"github.com/arloliu/fieldset/timeconv"
)

// ArgMax returns the start time of the largest valid sample. Ties resolve to
// the earliest sample.
func (c *Container) ArgMax() (float64, error) {
	return c.argExtreme(func(a, b float64) bool { return a > b })
}

// ArgMin returns the start time of the smallest valid sample. Ties resolve
// to the earliest sample.
func (c *Container) ArgMin() (float64, error) {
	return c.argExtreme(func(a, b float64) bool { return a < b })
}

// ArgMaxDate is ArgMax in calendar form.
func (c *Container) ArgMaxDate() (string, error) {
	t, err := c.ArgMax()
	if err != nil {
		return "", err
	}

	return timeconv.Format(t), nil
}

// ArgMinDate is ArgMin in calendar form.
func (c *Container) ArgMinDate() (string, error) {
	t, err := c.ArgMin()
	if err != nil {
		return "", err
	}

	return timeconv.Format(t), nil
}

func (c *Container) argExtreme(better func(a, b float64) bool) (float64, error) {
	if c.kind != KindNumeric {
		return 0, fmt.Errorf("%w: %s container", errs.ErrNotNumeric, c.kind)
	}

	best := -1
	for i, v := range c.nums {
		if !c.mask[i] || math.IsNaN(v) {
			continue
		}
		if best < 0 || better(v, c.nums[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, errs.ErrNoValidSamples
	}

	return c.times.Start(best), nil
}

// MovingAverage returns the centered moving average over a window of n
// samples. Windows are truncated at both ends and only valid samples
// contribute. An output sample is valid when its window holds at least one
// valid input; otherwise it is NaN and masked out. Length, timeline and unit
// are preserved.
func (c *Container) MovingAverage(n int) (*Container, error) {
	if c.kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s container", errs.ErrNotNumeric, c.kind)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidWindow, n)
	}

	size := c.Len()
	sums, releaseSums := pool.GetFloat64Slice(size + 1)
	defer releaseSums()
	counts, releaseCounts := pool.GetIntSlice(size + 1)
	defer releaseCounts()

	for i, v := range c.nums {
		sums[i+1] = sums[i]
		counts[i+1] = counts[i]
		if c.mask[i] && !math.IsNaN(v) {
			sums[i+1] += v
			counts[i+1]++
		}
	}

	before, after := (n-1)/2, n/2
	values := make([]float64, size)
	mask := make([]bool, size)
	for i := range values {
		lo := max(i-before, 0)
		hi := min(i+after+1, size)

		cnt := counts[hi] - counts[lo]
		if cnt == 0 {
			values[i] = math.NaN()
			continue
		}
		values[i] = (sums[hi] - sums[lo]) / float64(cnt)
		mask[i] = true
	}

	return c.numeric(values, mask, c.unit), nil
}
