package field

import (
	"fmt"
	"strings"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/internal/hash"
)

// Conventional source types.
const (
	SourceTelemetry = "telemetry"
	SourceStates    = "states"
	SourceModel     = "model"
)

// ID is the normalized (source, name) identity of a field.
type ID struct {
	Source string
	Name   string
}

// NewID returns the normalized identity of name within source.
func NewID(source, name string) ID {
	return ID{Source: Normalize(source), Name: Normalize(name)}
}

// Normalize trims and lower-cases a source type or field name.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseID parses the "source.name" form produced by ID.String. Only the
// first dot separates source from name.
func ParseID(s string) (ID, error) {
	src, name, ok := strings.Cut(s, ".")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q is not of the form source.name", errs.ErrInvalidFieldName, s)
	}

	id := NewID(src, name)
	if err := id.Validate(); err != nil {
		return ID{}, err
	}

	return id, nil
}

// Validate reports whether both parts are non-empty, contain no NUL byte and
// the source contains no dot.
func (id ID) Validate() error {
	switch {
	case id.Source == "" || id.Name == "":
		return fmt.Errorf("%w: empty source or name in %q", errs.ErrInvalidFieldName, id.String())
	case strings.ContainsRune(id.Source, 0) || strings.ContainsRune(id.Name, 0):
		return fmt.Errorf("%w: NUL byte in %q", errs.ErrInvalidFieldName, id.String())
	case strings.Contains(id.Source, "."):
		return fmt.Errorf("%w: source %q contains a dot", errs.ErrInvalidFieldName, id.Source)
	}

	return nil
}

// String renders the identity as "source.name".
func (id ID) String() string {
	return id.Source + "." + id.Name
}

// Column returns the tabular export column name "source_name".
func (id ID) Column() string {
	return id.Source + "_" + id.Name
}

// Key returns the 64-bit hash used to store the identity.
func (id ID) Key() uint64 {
	return hash.FieldID(id.Source, id.Name)
}

// Ref is a possibly unqualified reference to a field.
type Ref struct {
	source string
	name   string
}

// Of returns a reference qualified with a source type.
func Of(source, name string) Ref {
	return Ref{source: Normalize(source), name: Normalize(name)}
}

// Named returns a bare reference resolved across all sources.
func Named(name string) Ref {
	return Ref{name: Normalize(name)}
}

// Ref returns the qualified reference to id.
func (id ID) Ref() Ref {
	return Ref{source: id.Source, name: id.Name}
}

// ParseRef accepts "source.name" or a bare "name".
func ParseRef(s string) Ref {
	if src, name, ok := strings.Cut(s, "."); ok {
		return Of(src, name)
	}

	return Named(s)
}

// Source returns the source type, empty for bare references.
func (r Ref) Source() string { return r.source }

// Name returns the field name.
func (r Ref) Name() string { return r.name }

// IsQualified reports whether the reference names a source.
func (r Ref) IsQualified() bool {
	return r.source != ""
}

// ID returns the identity of a qualified reference.
func (r Ref) ID() (ID, bool) {
	if !r.IsQualified() {
		return ID{}, false
	}

	return ID{Source: r.source, Name: r.name}, true
}

func (r Ref) String() string {
	if r.source == "" {
		return r.name
	}

	return r.source + "." + r.name
}
