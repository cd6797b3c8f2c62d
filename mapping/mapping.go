package mapping

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
	"gopkg.in/yaml.v3"
)

// DefaultSourceID identifies the catch-all source mapping.
const DefaultSourceID = "default"

// SourceMapping binds a generic log-source descriptor to a platform table,
// an always-true extra condition and a field override map.
type SourceMapping struct {
	ID string `yaml:"id"`

	// LogSource is the signature this mapping applies to. Empty attributes
	// match anything.
	LogSource ast.LogSource `yaml:"log_source"`

	Table          string            `yaml:"table"`
	ExtraCondition string            `yaml:"extra_condition"`
	Fields         map[string]string `yaml:"fields"`
}

// specificity is the number of descriptor attributes the mapping constrains.
func (sm SourceMapping) specificity() int {
	n := 0
	for _, v := range []string{sm.LogSource.Product, sm.LogSource.Category, sm.LogSource.Service} {
		if v != "" {
			n++
		}
	}
	return n
}

func (sm SourceMapping) matches(ls ast.LogSource) bool {
	return attrMatches(sm.LogSource.Product, ls.Product) &&
		attrMatches(sm.LogSource.Category, ls.Category) &&
		attrMatches(sm.LogSource.Service, ls.Service)
}

func attrMatches(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

// Mappings is the field and log-source mapping table of one platform.
// It is built once and only read afterwards.
type Mappings struct {
	PlatformID string `yaml:"platform"`

	// RequireTable is set for platforms that cannot render a query without a
	// FROM/source clause.
	RequireTable bool `yaml:"require_table"`

	// DefaultFields is the platform wide generic to platform field map.
	DefaultFields map[string]string `yaml:"default_fields"`

	Sources []SourceMapping `yaml:"sources"`
}

// Load parses a YAML mapping document.
func Load(data []byte) (*Mappings, error) {
	var m Mappings
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse mappings: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// LoadFS reads and parses a YAML mapping document from fsys.
func LoadFS(fsys fs.FS, path string) (*Mappings, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read mappings `%s`: %w", path, err)
	}

	m, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("mappings `%s`: %w", path, err)
	}

	return m, nil
}

func (m *Mappings) validate() error {
	if m.PlatformID == "" {
		return errors.New("platform is required")
	}

	seen := make(map[string]struct{}, len(m.Sources))
	for _, s := range m.Sources {
		if s.ID == "" {
			return errors.New("source mapping without id")
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("duplicate source mapping `%s`", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	return nil
}

// ResolveSource picks the most specific source mapping for ls.
// It fails with a mapping fault when the platform requires a table and none
// of the mappings provides one.
func (m *Mappings) ResolveSource(ls ast.LogSource) (SourceMapping, error) {
	best := -1
	var found SourceMapping
	for _, s := range m.Sources {
		if !s.matches(ls) {
			continue
		}
		if sp := s.specificity(); sp > best {
			best = sp
			found = s
		}
	}

	if best < 0 {
		found = SourceMapping{ID: DefaultSourceID}
	}

	if m.RequireTable && found.Table == "" {
		return SourceMapping{}, fault.New(fault.MappingCode, "no table is mapped for log source").WithMetadata(map[string]any{
			"platform":   m.PlatformID,
			"log_source": ls.String(),
		})
	}

	return found, nil
}

// ResolveField resolves a generic field name. Lookup order is the override on
// the field itself, the source mapping, the platform defaults and finally the
// generic name unchanged.
func (m *Mappings) ResolveField(field ast.FieldRef, sm SourceMapping) string {
	if v, ok := field.Overrides[m.PlatformID]; ok && v != "" {
		return v
	}
	if v, ok := sm.Fields[field.Name]; ok {
		return v
	}
	if v, ok := m.DefaultFields[field.Name]; ok {
		return v
	}
	return field.Name
}
