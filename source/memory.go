package source

import (
	"fmt"
	"slices"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/units"
	"github.com/arloliu/fieldset/value"
)

// Memory is a Source backed by containers held in memory.
//
// Field names are normalized to lower case. Memory is not safe for
// concurrent use.
type Memory struct {
	fields   map[string]*value.Container
	resolver *UnitResolver
}

var _ Source = (*Memory)(nil)

// NewMemory creates an empty in-memory source.
func NewMemory(opts ...Option) (*Memory, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return nil, err
	}

	return newMemory(cfg), nil
}

func newMemory(cfg config) *Memory {
	return &Memory{
		fields:   make(map[string]*value.Container),
		resolver: newUnitResolver(cfg),
	}
}

// Add stores c under name. Adding a name twice fails with
// errs.ErrDuplicateField.
func (m *Memory) Add(name string, c *value.Container) error {
	key := field.Normalize(name)
	if key == "" {
		return fmt.Errorf("%w: empty name", errs.ErrInvalidFieldName)
	}
	if c == nil {
		return fmt.Errorf("add %q: nil container", name)
	}
	if _, exists := m.fields[key]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateField, key)
	}

	m.fields[key] = c

	return nil
}

// AddNumeric stores point-sampled numeric data. A nil mask marks every
// sample valid.
func (m *Memory) AddNumeric(name string, times, values []float64, mask []bool, unit string) error {
	c, err := value.NewNumeric(values, value.Points(times), mask, unit)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}

	return m.Add(name, c)
}

// AddText stores point-sampled text data. A nil mask marks every sample
// valid.
func (m *Memory) AddText(name string, times []float64, values []string, mask []bool) error {
	c, err := value.NewText(values, value.Points(times), mask)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}

	return m.Add(name, c)
}

// AddStates stores piecewise-constant state intervals [starts[i], stops[i]).
func (m *Memory) AddStates(name string, starts, stops []float64, values []string) error {
	c, err := value.NewText(values, value.Intervals(starts, stops), nil)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}

	return m.Add(name, c)
}

// AddNumericStates stores numeric state intervals such as commanded angles.
func (m *Memory) AddNumericStates(name string, starts, stops, values []float64, unit string) error {
	c, err := value.NewNumeric(values, value.Intervals(starts, stops), nil, unit)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}

	return m.Add(name, c)
}

// Keys returns the stored field names, sorted.
func (m *Memory) Keys() []string {
	keys := make([]string, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// Get returns the container stored under name.
func (m *Memory) Get(name string) (*value.Container, error) {
	c, ok := m.fields[field.Normalize(name)]
	if !ok {
		return nil, &errs.UnknownFieldError{Field: name}
	}

	return c, nil
}

// UnitFor returns the unit tag of the stored container, or the resolver's
// answer when the container carries none.
func (m *Memory) UnitFor(name string) string {
	if c, ok := m.fields[field.Normalize(name)]; ok {
		if c.Unit() != units.Dimensionless {
			return c.Unit()
		}
		if c.Kind() != value.KindNumeric {
			return units.Dimensionless
		}
	}

	return m.resolver.Resolve(name)
}

// Len returns the number of stored fields.
func (m *Memory) Len() int {
	return len(m.fields)
}
