// Package value implements the Container, the immutable time-aware array at
// the bottom of the field engine.
//
// A Container pairs an ordered sequence of values with a parallel Timeline, a
// validity mask and, for numeric data, a unit tag. Values are one of three
// kinds:
//   - KindNumeric: float64 samples carrying a unit tag (telemetry, model output)
//   - KindText: categorical string samples (commanded states such as "NPNT")
//   - KindBool: results of element-wise comparisons
//
// A Timeline holds either point samples (one start time per value) or
// intervals (a start and stop per value) for piecewise-constant state data.
// All times are seconds since timeconv.Epoch.
//
// Containers are never modified after construction. Every operation returns
// a new Container and may share backing arrays with its input, which is safe
// because no code path writes into them.
//
// # Time Lookup
//
// TimeIndex implements "last sample at or before" semantics with a binary
// search over the start axis:
//
//	states, _ := value.NewText([]string{"A", "B", "C"},
//	    value.Intervals([]float64{0, 10, 20}, []float64{10, 20, 30}), nil)
//	i, _ := states.TimeIndex(15) // 1
//	i, _ = states.TimeIndex(25)  // 2
//	_, err := states.TimeIndex(-1) // errs.ErrTimeOutOfRange
//
// # Masked Arithmetic
//
// Element-wise operations AND the operand masks and take timestamps from the
// left operand. Timelines are not compared unless StrictAlignment is passed:
//
//	diff, err := model.Sub(telemetry, value.StrictAlignment())
package value
