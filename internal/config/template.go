// Package config loads and validates dashboard templates: the column
// catalog and declarative wiring table a supervisor starts from (§6,
// §7). Duplicate column ids and dangling wiring references are fatal at
// startup. Column types are not checked: any type string is accepted.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors surfaced by Validate.
var (
	ErrDuplicateColumnID = errors.New("config: duplicate column id")
	ErrUnknownColumnRef  = errors.New("config: wiring references unknown column id")
)

// Column describes one worker/panel the supervisor spawns.
type Column struct {
	ID      string         `json:"id" yaml:"id"`
	Type    string         `json:"type" yaml:"type"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// WiringOn is the trigger half of a WiringRule: a (column, event) pair.
type WiringOn struct {
	Column string `json:"column" yaml:"column"`
	Event  string `json:"event" yaml:"event"`
}

// WiringDo is the action half of a WiringRule: the target column (or
// "*" for broadcast) and the action to dispatch.
type WiringDo struct {
	Column string `json:"column" yaml:"column"`
	Action string `json:"action" yaml:"action"`
}

// WiringEntry is one declarative routing rule as it appears in a
// template file.
type WiringEntry struct {
	On WiringOn `json:"on" yaml:"on"`
	Do WiringDo `json:"do" yaml:"do"`
}

// BroadcastTarget is the wildcard wiring target meaning "every worker
// except the source".
const BroadcastTarget = "*"

// Template is the decoded contents of a template file: a name, the
// column catalog, and the wiring table.
type Template struct {
	Name    string        `json:"name" yaml:"name"`
	Columns []Column      `json:"columns" yaml:"columns"`
	Wiring  []WiringEntry `json:"wiring" yaml:"wiring"`
}

// Load reads and decodes the template at path, choosing a JSON or YAML
// decoder by file extension (.yaml/.yml use YAML; everything else
// JSON), then validates it. A malformed or invalid template is a fatal
// startup error per §7.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading template %s: %w", path, err)
	}

	var t Template
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("config: parsing YAML template %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("config: parsing JSON template %s: %w", path, err)
		}
	}

	if err := Validate(&t); err != nil {
		return nil, fmt.Errorf("config: invalid template %s: %w", path, err)
	}
	return &t, nil
}

// Validate enforces that column ids are unique and that every wiring
// source and non-wildcard target references a known column id.
func Validate(t *Template) error {
	ids := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if ids[c.ID] {
			return fmt.Errorf("%s: %w", c.ID, ErrDuplicateColumnID)
		}
		ids[c.ID] = true
	}

	for _, w := range t.Wiring {
		if !ids[w.On.Column] {
			return fmt.Errorf("on.column %s: %w", w.On.Column, ErrUnknownColumnRef)
		}
		if w.Do.Column != BroadcastTarget && !ids[w.Do.Column] {
			return fmt.Errorf("do.column %s: %w", w.Do.Column, ErrUnknownColumnRef)
		}
	}
	return nil
}
