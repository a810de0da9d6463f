package units

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/fieldset/errs"
)

// Table is a static per-field-name unit table. Field names are matched
// case-insensitively.
type Table map[string]string

// tableDocument is the on-disk layout shared by the YAML and TOML forms:
//
//	units:
//	  1deamzt: degC
//	  pitch: deg
type tableDocument struct {
	Units map[string]string `yaml:"units" toml:"units"`
}

// NewTable builds a Table from name → unit pairs, normalizing names and
// validating every unit tag.
func NewTable(entries map[string]string) (Table, error) {
	t := make(Table, len(entries))
	for name, unit := range entries {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("%w: empty name in unit table", errs.ErrInvalidFieldName)
		}
		if !Known(unit) {
			return nil, fmt.Errorf("unit table entry %q: %w: %q", name, errs.ErrUnknownUnit, unit)
		}
		t[key] = Canonical(unit)
	}

	return t, nil
}

// Lookup returns the unit recorded for a field name.
func (t Table) Lookup(name string) (string, bool) {
	u, ok := t[strings.ToLower(strings.TrimSpace(name))]
	return u, ok
}

// Merge returns a new table holding t's entries overridden by other's.
func (t Table) Merge(other Table) Table {
	merged := make(Table, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}

	return merged
}

// ParseYAML decodes a YAML unit table. Unknown top-level keys are rejected.
func ParseYAML(data []byte) (Table, error) {
	var doc tableDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode yaml unit table: %w", err)
	}

	return NewTable(doc.Units)
}

// ParseTOML decodes a TOML unit table.
func ParseTOML(data []byte) (Table, error) {
	var doc tableDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode toml unit table: %w", err)
	}

	return NewTable(doc.Units)
}

// LoadTable reads a unit table from path. The decoder is chosen by file
// extension: .yaml/.yml or .toml.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit table: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return nil, fmt.Errorf("unit table %s: unsupported extension %q", path, filepath.Ext(path))
	}
}
