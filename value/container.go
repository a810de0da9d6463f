package value

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/timeconv"
	"github.com/arloliu/fieldset/units"
)

// Kind identifies the value type held by a Container.
type Kind uint8

const (
	KindNumeric Kind = 0x1 // KindNumeric holds float64 values with a unit tag.
	KindText    Kind = 0x2 // KindText holds categorical strings.
	KindBool    Kind = 0x3 // KindBool holds comparison results.
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "Numeric"
	case KindText:
		return "Text"
	case KindBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Container is an immutable sequence of values with timestamps, a validity
// mask and a unit tag. See the package documentation for details.
type Container struct {
	kind  Kind
	nums  []float64
	texts []string
	bools []bool
	times Timeline
	mask  []bool
	unit  string
	dates *dateCache
}

type dateCache struct {
	once  sync.Once
	dates []string
}

// Sample is a single element of a Container.
type Sample struct {
	Start float64
	Stop  float64
	Valid bool
	Kind  Kind
	Float float64
	Text  string
	Bool  bool
}

// Value returns the sample value as float64, string or bool.
func (s Sample) Value() any {
	switch s.Kind {
	case KindText:
		return s.Text
	case KindBool:
		return s.Bool
	default:
		return s.Float
	}
}

// NewNumeric creates a numeric container. A nil mask marks every sample
// valid. All slices are copied.
func NewNumeric(values []float64, times Timeline, mask []bool, unit string) (*Container, error) {
	c := &Container{kind: KindNumeric, nums: slices.Clone(values), unit: units.Canonical(unit)}
	if c.nums == nil {
		c.nums = []float64{}
	}

	return c.init(len(values), times, mask)
}

// NewText creates a text container. A nil mask marks every sample valid.
// All slices are copied.
func NewText(values []string, times Timeline, mask []bool) (*Container, error) {
	c := &Container{kind: KindText, texts: slices.Clone(values)}
	if c.texts == nil {
		c.texts = []string{}
	}

	return c.init(len(values), times, mask)
}

// NewBool creates a boolean container. A nil mask marks every sample valid.
// All slices are copied.
func NewBool(values []bool, times Timeline, mask []bool) (*Container, error) {
	c := &Container{kind: KindBool, bools: slices.Clone(values)}
	if c.bools == nil {
		c.bools = []bool{}
	}

	return c.init(len(values), times, mask)
}

func (c *Container) init(n int, times Timeline, mask []bool) (*Container, error) {
	if err := times.validate(); err != nil {
		return nil, err
	}
	if times.Len() != n {
		return nil, fmt.Errorf("%w: %d values, %d timestamps", errs.ErrLengthMismatch, n, times.Len())
	}

	if mask == nil {
		mask = make([]bool, n)
		for i := range mask {
			mask[i] = true
		}
	} else {
		if len(mask) != n {
			return nil, fmt.Errorf("%w: %d values, %d mask flags", errs.ErrLengthMismatch, n, len(mask))
		}
		mask = slices.Clone(mask)
	}

	c.times = times
	c.mask = mask
	c.dates = &dateCache{}

	return c, nil
}

// derive returns a container of the same kind and unit sharing nothing
// mutable with c, with the given pieces replaced.
func (c *Container) derive(times Timeline, mask []bool) *Container {
	return &Container{
		kind:  c.kind,
		unit:  c.unit,
		times: times,
		mask:  mask,
		dates: &dateCache{},
	}
}

// Kind returns the value kind.
func (c *Container) Kind() Kind {
	return c.kind
}

// Len returns the number of samples.
func (c *Container) Len() int {
	return len(c.mask)
}

// Unit returns the unit tag; always empty for text and bool containers.
func (c *Container) Unit() string {
	return c.unit
}

// Times returns the timeline.
func (c *Container) Times() Timeline {
	return c.times
}

// IsInterval reports whether samples are [start, stop) intervals.
func (c *Container) IsInterval() bool {
	return c.times.IsInterval()
}

// Floats returns a copy of the numeric values, or nil for other kinds.
func (c *Container) Floats() []float64 {
	return slices.Clone(c.nums)
}

// Strings returns a copy of the text values, or nil for other kinds.
func (c *Container) Strings() []string {
	return slices.Clone(c.texts)
}

// Bools returns a copy of the boolean values, or nil for other kinds.
func (c *Container) Bools() []bool {
	return slices.Clone(c.bools)
}

// Mask returns a copy of the validity mask.
func (c *Container) Mask() []bool {
	return slices.Clone(c.mask)
}

// ValidCount returns the number of valid samples.
func (c *Container) ValidCount() int {
	return countTrue(c.mask)
}

// FormatValue renders sample i as text: shortest round-trip form for
// numbers, the string itself for text, "true"/"false" for booleans.
func (c *Container) FormatValue(i int) string {
	switch c.kind {
	case KindNumeric:
		return strconv.FormatFloat(c.nums[i], 'g', -1, 64)
	case KindText:
		return c.texts[i]
	default:
		return strconv.FormatBool(c.bools[i])
	}
}

// Dates returns the calendar form of the start axis. It is computed on the
// first call and cached for the lifetime of the container.
func (c *Container) Dates() []string {
	c.dates.once.Do(func() {
		c.dates.dates = timeconv.FormatAll(c.times.starts)
	})

	return slices.Clone(c.dates.dates)
}

// WithUnit returns a copy tagged with unit without rescaling values.
// Only numeric containers may carry a non-empty unit.
func (c *Container) WithUnit(unit string) (*Container, error) {
	if c.kind != KindNumeric && unit != units.Dimensionless {
		return nil, fmt.Errorf("%w: cannot tag %s container with unit %q", errs.ErrNotNumeric, c.kind, unit)
	}

	out := *c
	out.unit = units.Canonical(unit)
	out.dates = c.dates

	return &out, nil
}

// To returns a copy with values converted to unit. Mask and timestamps are
// unchanged.
func (c *Container) To(unit string) (*Container, error) {
	if c.kind != KindNumeric {
		return nil, fmt.Errorf("%w: cannot convert %s container", errs.ErrNotNumeric, c.kind)
	}

	converted, err := units.Convert(c.nums, c.unit, unit)
	if err != nil {
		return nil, err
	}

	out := c.derive(c.times, c.mask)
	out.nums = converted
	out.unit = units.Canonical(unit)
	out.dates = c.dates

	return out, nil
}

// Equal reports whether both containers hold the same kind, unit, timeline,
// mask and values.
func (c *Container) Equal(other *Container) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}

	return c.kind == other.kind &&
		c.unit == other.unit &&
		c.times.Equal(other.times) &&
		slices.Equal(c.mask, other.mask) &&
		slices.Equal(c.nums, other.nums) &&
		slices.Equal(c.texts, other.texts) &&
		slices.Equal(c.bools, other.bools)
}

// SameTimeline reports whether every container shares the first one's
// timeline element for element.
func SameTimeline(containers ...*Container) bool {
	if len(containers) < 2 {
		return true
	}

	for _, c := range containers[1:] {
		if !c.times.Equal(containers[0].times) {
			return false
		}
	}

	return true
}

func (c *Container) String() string {
	return fmt.Sprintf("Container(%s, len=%d, unit=%q, interval=%t)", c.kind, c.Len(), c.unit, c.IsInterval())
}
