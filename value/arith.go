package value

import (
	"fmt"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/units"
)

type opConfig struct {
	strict bool
}

// OpOption configures an element-wise operation.
type OpOption = options.Option[*opConfig]

// StrictAlignment makes an element-wise operation fail with
// errs.ErrTimeAlignmentMismatch unless both operands share the same timeline.
func StrictAlignment() OpOption {
	return options.NoError(func(cfg *opConfig) {
		cfg.strict = true
	})
}

// prepare validates a binary operation and returns the combined mask.
func (c *Container) prepare(other *Container, opts []OpOption) ([]bool, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: nil operand", errs.ErrLengthMismatch)
	}

	cfg, err := options.Build(opConfig{}, opts...)
	if err != nil {
		return nil, err
	}

	if c.Len() != other.Len() {
		return nil, fmt.Errorf("%w: %d and %d samples", errs.ErrLengthMismatch, c.Len(), other.Len())
	}
	if cfg.strict && !c.times.Equal(other.times) {
		return nil, fmt.Errorf("%w: operands have different timelines", errs.ErrTimeAlignmentMismatch)
	}

	mask := make([]bool, c.Len())
	for i := range mask {
		mask[i] = c.mask[i] && other.mask[i]
	}

	return mask, nil
}

// alignedFloats returns the right operand's values expressed in the left
// operand's unit and the unit of the result. A dimensionless operand adopts
// the unit of the other one.
func (c *Container) alignedFloats(other *Container) ([]float64, string, error) {
	if c.kind != KindNumeric || other.kind != KindNumeric {
		return nil, "", fmt.Errorf("%w: %s and %s operands", errs.ErrNotNumeric, c.kind, other.kind)
	}

	switch {
	case c.unit == other.unit:
		return other.nums, c.unit, nil
	case c.unit == units.Dimensionless:
		return other.nums, other.unit, nil
	case other.unit == units.Dimensionless:
		return other.nums, c.unit, nil
	}

	converted, err := units.Convert(other.nums, other.unit, c.unit)
	if err != nil {
		return nil, "", err
	}

	return converted, c.unit, nil
}

func (c *Container) numeric(values []float64, mask []bool, unit string) *Container {
	return &Container{
		kind:  KindNumeric,
		nums:  values,
		times: c.times,
		mask:  mask,
		unit:  unit,
		dates: &dateCache{},
	}
}

func (c *Container) boolean(values []bool, mask []bool) *Container {
	return &Container{
		kind:  KindBool,
		bools: values,
		times: c.times,
		mask:  mask,
		dates: &dateCache{},
	}
}

func (c *Container) additive(other *Container, sign float64, opts []OpOption) (*Container, error) {
	mask, err := c.prepare(other, opts)
	if err != nil {
		return nil, err
	}

	right, unit, err := c.alignedFloats(other)
	if err != nil {
		return nil, err
	}

	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.nums[i] + sign*right[i]
	}

	return c.numeric(out, mask, unit), nil
}

// Add returns c + other. The right operand is converted to the unit of c.
func (c *Container) Add(other *Container, opts ...OpOption) (*Container, error) {
	return c.additive(other, 1, opts)
}

// Sub returns c - other. The right operand is converted to the unit of c.
func (c *Container) Sub(other *Container, opts ...OpOption) (*Container, error) {
	return c.additive(other, -1, opts)
}

// Mul returns c * other tagged with the product of both units.
func (c *Container) Mul(other *Container, opts ...OpOption) (*Container, error) {
	mask, err := c.prepare(other, opts)
	if err != nil {
		return nil, err
	}
	if c.kind != KindNumeric || other.kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s and %s operands", errs.ErrNotNumeric, c.kind, other.kind)
	}

	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.nums[i] * other.nums[i]
	}

	return c.numeric(out, mask, units.Multiply(c.unit, other.unit)), nil
}

// Div returns c / other tagged with the quotient of both units. Division by
// zero follows IEEE 754.
func (c *Container) Div(other *Container, opts ...OpOption) (*Container, error) {
	mask, err := c.prepare(other, opts)
	if err != nil {
		return nil, err
	}
	if c.kind != KindNumeric || other.kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s and %s operands", errs.ErrNotNumeric, c.kind, other.kind)
	}

	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.nums[i] / other.nums[i]
	}

	return c.numeric(out, mask, units.Divide(c.unit, other.unit)), nil
}

// AddScalar returns c + v, with v in the unit of c.
func (c *Container) AddScalar(v float64) (*Container, error) {
	if c.kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s container", errs.ErrNotNumeric, c.kind)
	}

	out := make([]float64, c.Len())
	for i, x := range c.nums {
		out[i] = x + v
	}

	return c.numeric(out, c.mask, c.unit), nil
}

// MulScalar returns c * v. The unit is unchanged.
func (c *Container) MulScalar(v float64) (*Container, error) {
	if c.kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s container", errs.ErrNotNumeric, c.kind)
	}

	out := make([]float64, c.Len())
	for i, x := range c.nums {
		out[i] = x * v
	}

	return c.numeric(out, c.mask, c.unit), nil
}

func (c *Container) order(other *Container, opts []OpOption, cmp func(a, b float64) bool) (*Container, error) {
	mask, err := c.prepare(other, opts)
	if err != nil {
		return nil, err
	}

	right, _, err := c.alignedFloats(other)
	if err != nil {
		return nil, err
	}

	out := make([]bool, c.Len())
	for i := range out {
		out[i] = cmp(c.nums[i], right[i])
	}

	return c.boolean(out, mask), nil
}

// Gt returns c > other element-wise.
func (c *Container) Gt(other *Container, opts ...OpOption) (*Container, error) {
	return c.order(other, opts, func(a, b float64) bool { return a > b })
}

// Ge returns c >= other element-wise.
func (c *Container) Ge(other *Container, opts ...OpOption) (*Container, error) {
	return c.order(other, opts, func(a, b float64) bool { return a >= b })
}

// Lt returns c < other element-wise.
func (c *Container) Lt(other *Container, opts ...OpOption) (*Container, error) {
	return c.order(other, opts, func(a, b float64) bool { return a < b })
}

// Le returns c <= other element-wise.
func (c *Container) Le(other *Container, opts ...OpOption) (*Container, error) {
	return c.order(other, opts, func(a, b float64) bool { return a <= b })
}

func (c *Container) equality(other *Container, opts []OpOption, want bool) (*Container, error) {
	mask, err := c.prepare(other, opts)
	if err != nil {
		return nil, err
	}
	if c.kind != other.kind {
		return nil, fmt.Errorf("%w: %s and %s operands", errs.ErrKindMismatch, c.kind, other.kind)
	}

	out := make([]bool, c.Len())
	switch c.kind {
	case KindNumeric:
		right, _, err := c.alignedFloats(other)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = (c.nums[i] == right[i]) == want
		}
	case KindText:
		for i := range out {
			out[i] = (c.texts[i] == other.texts[i]) == want
		}
	case KindBool:
		for i := range out {
			out[i] = (c.bools[i] == other.bools[i]) == want
		}
	}

	return c.boolean(out, mask), nil
}

// Eq returns c == other element-wise. Operands must be of the same kind.
func (c *Container) Eq(other *Container, opts ...OpOption) (*Container, error) {
	return c.equality(other, opts, true)
}

// Ne returns c != other element-wise. Operands must be of the same kind.
func (c *Container) Ne(other *Container, opts ...OpOption) (*Container, error) {
	return c.equality(other, opts, false)
}
