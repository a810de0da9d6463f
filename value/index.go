package value

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/timeconv"
)

// At returns sample i.
func (c *Container) At(i int) (Sample, error) {
	if i < 0 || i >= c.Len() {
		return Sample{}, fmt.Errorf("%w: index %d, length %d", errs.ErrIndexOutOfRange, i, c.Len())
	}

	s := Sample{
		Start: c.times.Start(i),
		Stop:  c.times.Stop(i),
		Valid: c.mask[i],
		Kind:  c.kind,
	}
	switch c.kind {
	case KindNumeric:
		s.Float = c.nums[i]
	case KindText:
		s.Text = c.texts[i]
	case KindBool:
		s.Bool = c.bools[i]
	}

	return s, nil
}

// All returns an iterator over every sample and its index.
func (c *Container) All() iter.Seq2[int, Sample] {
	return func(yield func(int, Sample) bool) {
		for i := range c.Len() {
			s, _ := c.At(i)
			if !yield(i, s) {
				return
			}
		}
	}
}

// Slice returns the samples in the positional range [lo, hi).
func (c *Container) Slice(lo, hi int) (*Container, error) {
	if lo < 0 || hi > c.Len() || lo > hi {
		return nil, fmt.Errorf("%w: range [%d, %d), length %d", errs.ErrIndexOutOfRange, lo, hi, c.Len())
	}

	out := c.derive(c.times.slice(lo, hi), c.mask[lo:hi:hi])
	switch c.kind {
	case KindNumeric:
		out.nums = c.nums[lo:hi:hi]
	case KindText:
		out.texts = c.texts[lo:hi:hi]
	case KindBool:
		out.bools = c.bools[lo:hi:hi]
	}

	return out, nil
}

// TimeIndex returns the index of the last sample starting at or before t.
// It fails with errs.ErrTimeOutOfRange when t precedes the first sample.
func (c *Container) TimeIndex(t float64) (int, error) {
	idx, ok := c.times.floor(t)
	if !ok {
		if c.Len() == 0 {
			return 0, fmt.Errorf("%w: %v on empty container", errs.ErrTimeOutOfRange, t)
		}
		if math.IsNaN(t) {
			return 0, fmt.Errorf("%w: NaN is not a time", errs.ErrTimeOutOfRange)
		}

		return 0, fmt.Errorf("%w: %v precedes first sample at %v", errs.ErrTimeOutOfRange, t, c.times.Start(0))
	}

	return idx, nil
}

// Bound is one end of a time range for SliceTime.
type Bound struct {
	open bool
	sec  float64
	date string
}

// Sec returns a bound at t seconds since timeconv.Epoch.
func Sec(t float64) Bound {
	return Bound{sec: t}
}

// Date returns a bound at a calendar date accepted by timeconv.Parse.
func Date(date string) Bound {
	return Bound{date: date}
}

// Open returns an unbounded end.
func Open() Bound {
	return Bound{open: true}
}

// IsOpen reports whether the bound is unbounded.
func (b Bound) IsOpen() bool {
	return b.open
}

// Seconds returns the bound in seconds since timeconv.Epoch.
func (b Bound) Seconds() (float64, error) {
	if b.open {
		return 0, fmt.Errorf("%w: open bound has no time", errs.ErrInvalidDate)
	}
	if b.date != "" {
		return timeconv.Parse(b.date)
	}

	return b.sec, nil
}

func (b Bound) String() string {
	switch {
	case b.open:
		return "open"
	case b.date != "":
		return b.date
	default:
		return fmt.Sprintf("%v", b.sec)
	}
}

// SliceTime returns the samples between two time bounds. Each closed bound
// is reduced to an index with TimeIndex, so the lower bound includes the
// sample in effect at lo and the upper bound excludes the sample in effect
// at hi.
func (c *Container) SliceTime(lo, hi Bound) (*Container, error) {
	loIdx, err := c.boundIndex(lo, 0)
	if err != nil {
		return nil, fmt.Errorf("lower bound %s: %w", lo, err)
	}
	hiIdx, err := c.boundIndex(hi, c.Len())
	if err != nil {
		return nil, fmt.Errorf("upper bound %s: %w", hi, err)
	}

	return c.Slice(loIdx, hiIdx)
}

func (c *Container) boundIndex(b Bound, openIdx int) (int, error) {
	if b.open {
		return openIdx, nil
	}

	t, err := b.Seconds()
	if err != nil {
		return 0, err
	}

	return c.TimeIndex(t)
}

// Filter returns the samples where keep is true. keep must have one flag
// per sample.
func (c *Container) Filter(keep []bool) (*Container, error) {
	if len(keep) != c.Len() {
		return nil, fmt.Errorf("%w: %d samples, %d filter flags", errs.ErrLengthMismatch, c.Len(), len(keep))
	}

	n := countTrue(keep)
	out := c.derive(c.times.filter(keep), make([]bool, 0, n))
	switch c.kind {
	case KindNumeric:
		out.nums = make([]float64, 0, n)
	case KindText:
		out.texts = make([]string, 0, n)
	case KindBool:
		out.bools = make([]bool, 0, n)
	}

	for i, k := range keep {
		if !k {
			continue
		}
		out.mask = append(out.mask, c.mask[i])
		switch c.kind {
		case KindNumeric:
			out.nums = append(out.nums, c.nums[i])
		case KindText:
			out.texts = append(out.texts, c.texts[i])
		case KindBool:
			out.bools = append(out.bools, c.bools[i])
		}
	}

	return out, nil
}

// Valid returns only the valid samples.
func (c *Container) Valid() *Container {
	out, _ := c.Filter(c.mask)
	return out
}
