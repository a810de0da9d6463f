package value

import (
	"fmt"
)

// Remap projects piecewise-constant states onto the sample times of target.
//
// Each target start is floor-searched in the state start axis and takes the
// value and validity of the state in effect. Samples before the first state,
// or falling in a gap after an interval's stop, are masked out. The result
// has the kind and unit of states and the timeline of target.
func Remap(states *Container, target Timeline) (*Container, error) {
	if err := target.validate(); err != nil {
		return nil, fmt.Errorf("remap target: %w", err)
	}

	n := target.Len()
	out := &Container{
		kind:  states.kind,
		unit:  states.unit,
		times: target,
		mask:  make([]bool, n),
		dates: &dateCache{},
	}
	switch states.kind {
	case KindNumeric:
		out.nums = make([]float64, n)
	case KindText:
		out.texts = make([]string, n)
	case KindBool:
		out.bools = make([]bool, n)
	}

	for i := range n {
		t := target.Start(i)
		idx, ok := states.times.floor(t)
		if !ok || !states.times.covers(idx, t) {
			continue
		}

		out.mask[i] = states.mask[idx]
		switch states.kind {
		case KindNumeric:
			out.nums[i] = states.nums[idx]
		case KindText:
			out.texts[i] = states.texts[idx]
		case KindBool:
			out.bools[i] = states.bools[idx]
		}
	}

	return out, nil
}
