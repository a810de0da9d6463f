package field

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/internal/collision"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/value"
)

// Kind tells output entries from derived ones.
type Kind uint8

const (
	KindOutput  Kind = 0x1 // KindOutput holds data loaded from a source.
	KindDerived Kind = 0x2 // KindDerived holds a recipe computed on demand.
)

func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "Output"
	case KindDerived:
		return "Derived"
	default:
		return "Unknown"
	}
}

// Getter is the compute context handed to derived recipes.
type Getter interface {
	Get(ref Ref) (*value.Container, error)
}

// ComputeFunc computes a derived field from its dependencies.
type ComputeFunc func(g Getter) (*value.Container, error)

// Derived describes a derived-field recipe.
type Derived struct {
	Compute ComputeFunc
	Unit    string
	Label   string
	Deps    []ID
}

// Entry is a registered field.
type Entry struct {
	ID      ID
	Kind    Kind
	Unit    string
	Label   string
	Deps    []ID
	Data    *value.Container // output entries only
	Compute ComputeFunc      // derived entries only
}

// IsDerived reports whether the entry is a recipe.
func (e Entry) IsDerived() bool {
	return e.Kind == KindDerived
}

type registryConfig struct {
	strict bool
}

// RegistryOption configures a Registry.
type RegistryOption = options.Option[*registryConfig]

// WithStrict makes registering an identity twice fail with
// errs.ErrDuplicateField instead of replacing the earlier entry.
func WithStrict() RegistryOption {
	return options.NoError(func(cfg *registryConfig) {
		cfg.strict = true
	})
}

// Registry maps field identities to entries and resolves references.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	cfg     registryConfig
	entries map[uint64]*Entry
	sources map[string][]string // name -> sorted source types
	keys    *collision.Tracker
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	cfg, err := options.Build(registryConfig{}, opts...)
	if err != nil {
		return nil, err
	}

	return &Registry{
		cfg:     cfg,
		entries: make(map[uint64]*Entry),
		sources: make(map[string][]string),
		keys:    collision.NewTracker(),
	}, nil
}

// IsStrict reports whether duplicate registrations are rejected.
func (r *Registry) IsStrict() bool {
	return r.cfg.strict
}

// RegisterOutput registers data loaded from a source under id. The entry
// unit is the container unit.
func (r *Registry) RegisterOutput(id ID, data *value.Container) error {
	if data == nil {
		return fmt.Errorf("register %s: nil container", id)
	}

	return r.register(&Entry{
		ID:   id,
		Kind: KindOutput,
		Unit: data.Unit(),
		Data: data,
	})
}

// RegisterDerived registers a recipe under id. Every dependency must already
// be registered; otherwise a *errs.MissingDependenciesError lists all of the
// missing ones and the registry is left unchanged. A recipe listing its own
// identity as a dependency fails with errs.ErrDependencyCycle.
func (r *Registry) RegisterDerived(id ID, d Derived) error {
	if d.Compute == nil {
		return fmt.Errorf("register %s: nil compute function", id)
	}
	if slices.Contains(d.Deps, id) {
		return fmt.Errorf("%w: %s depends on itself", errs.ErrDependencyCycle, id)
	}

	var missing []string
	for _, dep := range d.Deps {
		if _, ok := r.entries[dep.Key()]; !ok && !slices.Contains(missing, dep.String()) {
			missing = append(missing, dep.String())
		}
	}
	if len(missing) > 0 {
		return &errs.MissingDependenciesError{Field: id.String(), Missing: missing}
	}

	return r.register(&Entry{
		ID:      id,
		Kind:    KindDerived,
		Unit:    d.Unit,
		Label:   d.Label,
		Deps:    slices.Clone(d.Deps),
		Compute: d.Compute,
	})
}

func (r *Registry) register(e *Entry) error {
	id := e.ID
	if err := id.Validate(); err != nil {
		return err
	}

	key := id.Key()
	if err := r.keys.Check(id.String(), key); err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	if _, exists := r.entries[key]; exists && r.cfg.strict {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateField, id)
	}

	_ = r.keys.Track(id.String(), key)
	r.entries[key] = e

	srcs := r.sources[id.Name]
	if idx, found := slices.BinarySearch(srcs, id.Source); !found {
		r.sources[id.Name] = slices.Insert(srcs, idx, id.Source)
	}

	return nil
}

// Resolve maps a reference to a registered identity.
//
// Qualified references must exist. Bare names must be registered under
// exactly one source; otherwise a *errs.AmbiguousFieldError lists every
// candidate source.
func (r *Registry) Resolve(ref Ref) (ID, error) {
	if id, ok := ref.ID(); ok {
		if _, exists := r.entries[id.Key()]; !exists {
			return ID{}, &errs.UnknownFieldError{Field: id.String()}
		}

		return id, nil
	}

	srcs := r.sources[ref.Name()]
	switch len(srcs) {
	case 0:
		return ID{}, &errs.UnknownFieldError{Field: ref.Name()}
	case 1:
		return ID{Source: srcs[0], Name: ref.Name()}, nil
	default:
		return ID{}, &errs.AmbiguousFieldError{Name: ref.Name(), Sources: slices.Clone(srcs)}
	}
}

// Lookup returns the entry registered under id.
func (r *Registry) Lookup(id ID) (Entry, bool) {
	e, ok := r.entries[id.Key()]
	if !ok {
		return Entry{}, false
	}

	out := *e
	out.Deps = slices.Clone(e.Deps)

	return out, true
}

// Contains reports whether ref resolves.
func (r *Registry) Contains(ref Ref) bool {
	_, err := r.Resolve(ref)
	return err == nil
}

// Sources returns the registered source types, sorted.
func (r *Registry) Sources() []string {
	seen := make(map[string]struct{})
	for _, e := range r.entries {
		seen[e.ID.Source] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for src := range seen {
		out = append(out, src)
	}
	slices.Sort(out)

	return out
}

// Fields returns every registered identity sorted by source then name.
func (r *Registry) Fields() []ID {
	out := make([]ID, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.ID)
	}
	slices.SortFunc(out, compareIDs)

	return out
}

// FieldsOf returns the identities registered under source, sorted by name.
func (r *Registry) FieldsOf(source string) []ID {
	source = Normalize(source)

	out := make([]ID, 0)
	for _, e := range r.entries {
		if e.ID.Source == source {
			out = append(out, e.ID)
		}
	}
	slices.SortFunc(out, compareIDs)

	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	return len(r.entries)
}

func compareIDs(a, b ID) int {
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}

	return cmp.Compare(a.Name, b.Name)
}
