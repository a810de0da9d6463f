package dataset

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/fieldset/diag"
	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/source"
)

type namedSource struct {
	sourceType string
	src        source.Source
}

type config struct {
	sources            []namedSource
	logger             diag.Logger
	strictRegistration bool
	strictAlignment    bool
	registerer         prometheus.Registerer
}

func defaultConfig() config {
	return config{
		logger: diag.NopLogger,
	}
}

// Option configures a Dataset.
type Option = options.Option[*config]

// WithSource adds a source under a source type such as "telemetry",
// "states" or "model". Sources are registered in the order given.
func WithSource(sourceType string, src source.Source) Option {
	return options.New(func(cfg *config) error {
		name := field.Normalize(sourceType)
		if name == "" {
			return fmt.Errorf("%w: empty source type", errs.ErrInvalidFieldName)
		}
		if src == nil {
			return fmt.Errorf("source %q is nil", name)
		}
		for _, ns := range cfg.sources {
			if ns.sourceType == name {
				return fmt.Errorf("%w: %q", errs.ErrDuplicateSource, name)
			}
		}

		cfg.sources = append(cfg.sources, namedSource{sourceType: name, src: src})

		return nil
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

// WithStrictRegistration rejects registering a field identity twice instead
// of replacing the earlier entry.
func WithStrictRegistration() Option {
	return options.NoError(func(cfg *config) {
		cfg.strictRegistration = true
	})
}

// WithStrictAlignment makes the built-in derived fields require identical
// timelines on their operands.
func WithStrictAlignment() Option {
	return options.NoError(func(cfg *config) {
		cfg.strictAlignment = true
	})
}

// WithMetrics registers cache and compute metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return options.NoError(func(cfg *config) {
		cfg.registerer = reg
	})
}
