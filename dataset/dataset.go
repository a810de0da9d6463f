// Package dataset implements the Dataset, the engine that ties sources, the
// field registry and derived-field recipes together.
//
// A Dataset is built once from its sources: every key of every source is
// registered as an output field. Afterwards only derived recipes can be
// added. Fields are read with Get, which resolves the reference, serves
// derived fields from a compute-once cache and otherwise runs the recipe with
// the dataset itself as the compute context, so recipes can request their own
// dependencies:
//
//	ds, err := dataset.New(
//	    dataset.WithSource("telemetry", telemetry),
//	    dataset.WithSource("states", states),
//	)
//	id, err := ds.MapStateToMSID("pitch", "1deamzt", "telemetry")
//	pitch, err := ds.Get(id.Ref())
//
// A Dataset is not safe for concurrent use.
package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/arloliu/fieldset/diag"
	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/timeconv"
	"github.com/arloliu/fieldset/value"
)

// Dataset holds the registry of one set of sources and caches derived data.
type Dataset struct {
	cfg      config
	logger   diag.Logger
	metrics  *metrics
	registry *field.Registry
	sources  []string

	cache     map[uint64]*value.Container
	times     map[uint64]value.Timeline
	dates     map[uint64][]string
	computing []field.ID
}

var _ field.Getter = (*Dataset)(nil)

// New builds a dataset from its sources and registers every source key as
// an output field. The unit of each field is the one its source reports.
func New(opts ...Option) (*Dataset, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return nil, err
	}

	var regOpts []field.RegistryOption
	if cfg.strictRegistration {
		regOpts = append(regOpts, field.WithStrict())
	}
	registry, err := field.NewRegistry(regOpts...)
	if err != nil {
		return nil, err
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	d := &Dataset{
		cfg:      cfg,
		logger:   cfg.logger.WithPrefix("dataset: "),
		metrics:  m,
		registry: registry,
		cache:    make(map[uint64]*value.Container),
		times:    make(map[uint64]value.Timeline),
		dates:    make(map[uint64][]string),
	}

	for _, ns := range cfg.sources {
		if err := d.registerSource(ns); err != nil {
			return nil, err
		}
		d.sources = append(d.sources, ns.sourceType)
	}
	d.logger.Debugf("registered %d fields from %d sources", registry.Len(), len(cfg.sources))

	return d, nil
}

func (d *Dataset) registerSource(ns namedSource) error {
	for _, key := range ns.src.Keys() {
		id := field.NewID(ns.sourceType, key)

		c, err := ns.src.Get(key)
		if err != nil {
			return fmt.Errorf("load %s: %w", id, err)
		}

		if c.Kind() == value.KindNumeric {
			if unit := ns.src.UnitFor(key); unit != c.Unit() {
				if c, err = c.WithUnit(unit); err != nil {
					return fmt.Errorf("load %s: %w", id, err)
				}
			}
		}

		if err := d.registry.RegisterOutput(id, c); err != nil {
			return fmt.Errorf("load %s: %w", id, err)
		}
		d.logger.Debugf("registered output %s (%s, unit %q, %d samples)", id, c.Kind(), c.Unit(), c.Len())
	}

	return nil
}

// Get returns the data of a field. Derived fields are computed on first
// request and cached; failed computations are not cached. Requesting a
// field while it is being computed fails with errs.ErrDependencyCycle.
func (d *Dataset) Get(ref field.Ref) (*value.Container, error) {
	id, err := d.registry.Resolve(ref)
	if err != nil {
		return nil, err
	}

	entry, _ := d.registry.Lookup(id)
	if !entry.IsDerived() {
		return entry.Data, nil
	}

	key := id.Key()
	if c, ok := d.cache[key]; ok {
		d.metrics.hit()
		return c, nil
	}
	d.metrics.miss()

	for i, inFlight := range d.computing {
		if inFlight == id {
			return nil, fmt.Errorf("%w: %s", errs.ErrDependencyCycle, cyclePath(d.computing[i:], id))
		}
	}

	d.computing = append(d.computing, id)
	start := time.Now()
	c, err := d.compute(entry)
	d.computing = d.computing[:len(d.computing)-1]
	d.metrics.computed(err, time.Since(start))

	if err != nil {
		d.logger.Debugf("compute %s failed: %v", id, err)
		return nil, fmt.Errorf("compute %s: %w", id, err)
	}

	d.cache[key] = c

	return c, nil
}

func (d *Dataset) compute(entry field.Entry) (*value.Container, error) {
	c, err := entry.Compute(d)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("recipe returned no data")
	}

	if entry.Unit == "" || c.Kind() != value.KindNumeric || c.Unit() == entry.Unit {
		return c, nil
	}
	if c.Unit() == "" {
		return c.WithUnit(entry.Unit)
	}

	return c.To(entry.Unit)
}

func cyclePath(chain []field.ID, closing field.ID) string {
	parts := make([]string, 0, len(chain)+1)
	for _, id := range chain {
		parts = append(parts, id.String())
	}
	parts = append(parts, closing.String())

	return strings.Join(parts, " -> ")
}

// Times returns the timeline of a field. Timelines are cached separately
// from the data cache.
func (d *Dataset) Times(ref field.Ref) (value.Timeline, error) {
	id, err := d.registry.Resolve(ref)
	if err != nil {
		return value.Timeline{}, err
	}

	key := id.Key()
	if tl, ok := d.times[key]; ok {
		return tl, nil
	}

	c, err := d.Get(id.Ref())
	if err != nil {
		return value.Timeline{}, err
	}
	d.times[key] = c.Times()

	return c.Times(), nil
}

// Dates returns the calendar form of a field's start times, cached
// separately from the data and timeline caches.
func (d *Dataset) Dates(ref field.Ref) ([]string, error) {
	id, err := d.registry.Resolve(ref)
	if err != nil {
		return nil, err
	}

	key := id.Key()
	if dates, ok := d.dates[key]; ok {
		return slices.Clone(dates), nil
	}

	tl, err := d.Times(id.Ref())
	if err != nil {
		return nil, err
	}
	dates := timeconv.FormatAll(tl.Starts())
	d.dates[key] = dates

	return slices.Clone(dates), nil
}

// Info returns the registry entry of a field.
func (d *Dataset) Info(ref field.Ref) (field.Entry, error) {
	id, err := d.registry.Resolve(ref)
	if err != nil {
		return field.Entry{}, err
	}

	entry, _ := d.registry.Lookup(id)

	return entry, nil
}

// Contains reports whether ref resolves to a registered field.
func (d *Dataset) Contains(ref field.Ref) bool {
	return d.registry.Contains(ref)
}

// Fields returns every registered identity sorted by source then name.
func (d *Dataset) Fields() []field.ID {
	return d.registry.Fields()
}

// FieldsOf returns the identities registered under a source type.
func (d *Dataset) FieldsOf(sourceType string) []field.ID {
	return d.registry.FieldsOf(sourceType)
}

// Sources returns the source types the dataset was built from, in order.
func (d *Dataset) Sources() []string {
	return slices.Clone(d.sources)
}

// Len returns the number of registered fields.
func (d *Dataset) Len() int {
	return d.registry.Len()
}

// invalidate drops every cached derived result. It runs when a recipe
// replaces an existing entry, since dependents may have used the old one.
func (d *Dataset) invalidate() {
	clear(d.cache)
	clear(d.times)
	clear(d.dates)
}
