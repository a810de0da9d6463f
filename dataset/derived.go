package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/value"
)

// Name prefixes of the fields registered by the builders.
const (
	AveragePrefix = "avg_"
	DiffPrefix    = "diff_"
)

// AddDerivedField registers a recipe computing (src, name) from deps.
//
// Bare dependency references are resolved now; every dependency must already
// be registered, otherwise a *errs.MissingDependenciesError lists all missing
// ones. A non-empty unit is applied to the result: untagged numeric results
// are tagged with it and tagged ones are converted to it.
//
// Replacing an existing field drops all cached derived data.
func (d *Dataset) AddDerivedField(src, name string, fn field.ComputeFunc, unit string, deps []field.Ref, label string) (field.ID, error) {
	id := field.NewID(src, name)

	depIDs := make([]field.ID, 0, len(deps))
	var missing []string
	for _, ref := range deps {
		depID, err := d.registry.Resolve(ref)
		switch {
		case err == nil:
			depIDs = append(depIDs, depID)
		case errors.Is(err, errs.ErrUnknownField):
			if !slices.Contains(missing, ref.String()) {
				missing = append(missing, ref.String())
			}
		default:
			return field.ID{}, fmt.Errorf("register %s: %w", id, err)
		}
	}
	if len(missing) > 0 {
		return field.ID{}, &errs.MissingDependenciesError{Field: id.String(), Missing: missing}
	}

	err := d.registerDerived(id, field.Derived{
		Compute: fn,
		Unit:    unit,
		Label:   label,
		Deps:    depIDs,
	})
	if err != nil {
		return field.ID{}, err
	}

	return id, nil
}

func (d *Dataset) registerDerived(id field.ID, derived field.Derived) error {
	_, replacing := d.registry.Lookup(id)

	if err := d.registry.RegisterDerived(id, derived); err != nil {
		return err
	}

	if replacing {
		d.invalidate()
	}
	d.logger.Debugf("registered derived %s (unit %q, deps %v)", id, derived.Unit, derived.Deps)

	return nil
}

// AddAveragedField registers (src, "avg_<name>") holding the centered moving
// average of ref over n samples. Windows are truncated at the edges and
// only valid samples contribute; see value.Container.MovingAverage.
func (d *Dataset) AddAveragedField(ref field.Ref, n int) (field.ID, error) {
	if n < 1 {
		return field.ID{}, fmt.Errorf("%w: %d", errs.ErrInvalidWindow, n)
	}

	base, err := d.registry.Resolve(ref)
	if err != nil {
		return field.ID{}, err
	}
	entry, _ := d.registry.Lookup(base)
	if !entry.IsDerived() && entry.Data.Kind() != value.KindNumeric {
		return field.ID{}, fmt.Errorf("average %s: %w", base, errs.ErrNotNumeric)
	}

	id := field.NewID(base.Source, AveragePrefix+base.Name)
	err = d.registerDerived(id, field.Derived{
		Compute: func(g field.Getter) (*value.Container, error) {
			c, err := g.Get(base.Ref())
			if err != nil {
				return nil, err
			}

			return c.MovingAverage(n)
		},
		Unit:  entry.Unit,
		Label: strconv.Itoa(n) + "-sample average of " + base.String(),
		Deps:  []field.ID{base},
	})
	if err != nil {
		return field.ID{}, err
	}

	return id, nil
}

// MapStateToMSID registers (sourceType, state) holding the commanded state
// ("states", state) sampled at the timestamps of (sourceType, target).
//
// Each target timestamp takes the state in effect at that time. Timestamps
// before the first state, or in a gap after a state's stop, are masked out.
// Values and unit come from the state, timestamps from the target.
func (d *Dataset) MapStateToMSID(state, target, sourceType string) (field.ID, error) {
	stateID := field.NewID(field.SourceStates, state)
	targetID := field.NewID(sourceType, target)
	id := field.NewID(sourceType, state)

	if id == targetID {
		return field.ID{}, fmt.Errorf("%w: state %q would replace its own target %s", errs.ErrInvalidFieldName, state, targetID)
	}
	if id == stateID {
		return field.ID{}, fmt.Errorf("%w: state %q would replace its own source %s", errs.ErrInvalidFieldName, state, stateID)
	}

	unit := ""
	if entry, ok := d.registry.Lookup(stateID); ok {
		unit = entry.Unit
	}

	err := d.registerDerived(id, field.Derived{
		Compute: func(g field.Getter) (*value.Container, error) {
			states, err := g.Get(stateID.Ref())
			if err != nil {
				return nil, err
			}
			samples, err := g.Get(targetID.Ref())
			if err != nil {
				return nil, err
			}

			return value.Remap(states, samples.Times())
		},
		Unit:  unit,
		Label: stateID.String() + " at " + targetID.String() + " samples",
		Deps:  []field.ID{stateID, targetID},
	})
	if err != nil {
		return field.ID{}, err
	}

	return id, nil
}

// AddDiffDataModelField registers (modelSource, "diff_<name>") holding
// (modelSource, name) minus ("telemetry", name). The telemetry values are
// converted to the model unit. With WithStrictAlignment both fields must
// share one timeline.
func (d *Dataset) AddDiffDataModelField(name, modelSource string) (field.ID, error) {
	modelID := field.NewID(modelSource, name)
	telemetryID := field.NewID(field.SourceTelemetry, name)
	id := field.NewID(modelSource, DiffPrefix+modelID.Name)

	unit := ""
	if entry, ok := d.registry.Lookup(modelID); ok {
		unit = entry.Unit
	}

	var opOpts []value.OpOption
	if d.cfg.strictAlignment {
		opOpts = append(opOpts, value.StrictAlignment())
	}

	err := d.registerDerived(id, field.Derived{
		Compute: func(g field.Getter) (*value.Container, error) {
			model, err := g.Get(modelID.Ref())
			if err != nil {
				return nil, err
			}
			telemetry, err := g.Get(telemetryID.Ref())
			if err != nil {
				return nil, err
			}

			diff, err := model.Sub(telemetry, opOpts...)
			if err != nil && errors.Is(err, errs.ErrTimeAlignmentMismatch) {
				return nil, &errs.TimeAlignmentError{Reference: modelID.String(), Mismatched: []string{telemetryID.String()}}
			}

			return diff, err
		},
		Unit:  unit,
		Label: modelID.String() + " - " + telemetryID.String(),
		Deps:  []field.ID{modelID, telemetryID},
	})
	if err != nil {
		return field.ID{}, err
	}

	return id, nil
}
