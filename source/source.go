package source

import (
	"github.com/arloliu/fieldset/diag"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/units"
	"github.com/arloliu/fieldset/value"
)

// Source provides named containers of one source type.
type Source interface {
	// Keys returns the field names the source provides.
	Keys() []string
	// Get returns the container stored under name.
	Get(name string) (*value.Container, error)
	// UnitFor returns the unit tag of name, empty for dimensionless data.
	UnitFor(name string) string
}

// MetadataLookup returns the unit recorded for a field name in an external
// metadata store.
type MetadataLookup func(name string) (string, bool)

type config struct {
	table    units.Table
	metadata MetadataLookup
	logger   diag.Logger
	comma    rune
}

func defaultConfig() config {
	return config{
		logger: diag.NopLogger,
		comma:  ',',
	}
}

// Option configures a source or a UnitResolver.
type Option = options.Option[*config]

// WithUnitTable sets the static per-field-name unit table. Later tables
// override earlier ones.
func WithUnitTable(table units.Table) Option {
	return options.NoError(func(cfg *config) {
		cfg.table = cfg.table.Merge(table)
	})
}

// WithMetadata sets the lookup consulted for names missing from the unit
// table.
func WithMetadata(lookup MetadataLookup) Option {
	return options.NoError(func(cfg *config) {
		cfg.metadata = lookup
	})
}

// WithLogger sets the diagnostic logger. A nil logger disables logging.
func WithLogger(logger diag.Logger) Option {
	return options.NoError(func(cfg *config) {
		if logger == nil {
			logger = diag.NopLogger
		}
		cfg.logger = logger
	})
}

// WithComma sets the CSV field delimiter.
func WithComma(r rune) Option {
	return options.NoError(func(cfg *config) {
		cfg.comma = r
	})
}

// UnitResolver resolves field units: unit table, then metadata lookup, then
// dimensionless.
type UnitResolver struct {
	table    units.Table
	metadata MetadataLookup
	logger   diag.Logger
	warned   map[string]struct{}
}

// NewUnitResolver creates a resolver from WithUnitTable, WithMetadata and
// WithLogger options.
func NewUnitResolver(opts ...Option) (*UnitResolver, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return nil, err
	}

	return newUnitResolver(cfg), nil
}

func newUnitResolver(cfg config) *UnitResolver {
	return &UnitResolver{
		table:    cfg.table,
		metadata: cfg.metadata,
		logger:   cfg.logger,
		warned:   make(map[string]struct{}),
	}
}

// Resolve returns the unit of name. Names found nowhere are dimensionless;
// the first such lookup per name logs a warning.
func (r *UnitResolver) Resolve(name string) string {
	if u, ok := r.table.Lookup(name); ok {
		return u
	}

	if r.metadata != nil {
		if u, ok := r.metadata(name); ok {
			if !units.Known(u) {
				r.logger.Warnf("field %q: metadata unit %q is not a known unit", name, u)
			}

			return units.Canonical(u)
		}
	}

	if _, done := r.warned[name]; !done {
		r.warned[name] = struct{}{}
		r.logger.Warnf("field %q: no unit found, treating as dimensionless", name)
	}

	return units.Dimensionless
}
