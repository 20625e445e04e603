package colormap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Stop is a color anchored at a normalized position in [0,1].
type Stop struct {
	Pos   float64
	Color ColorSpec
}

// DefaultMap is used whenever a table is missing or malformed.
const DefaultMap = "Rainbow"

// builtin tables. Read-only after package initialization; registries copy them.
var builtin = map[string][]Stop{
	"Rainbow": {
		{0, Hex("#0000ff")}, {0.2, Hex("#00ffff")}, {0.5, Hex("#00ff00")},
		{0.8, Hex("#ffff00")}, {1, Hex("#ff0000")},
	},
	"Cooltowarm": {
		{0, Hex("#3c4ec2")}, {0.2, Hex("#9bbcff")}, {0.5, Hex("#dcdcdc")},
		{0.8, Hex("#f6a385")}, {1, Hex("#b40426")},
	},
	"Blackbody": {
		{0, Hex("#000000")}, {0.2, Hex("#780000")}, {0.5, Hex("#e63200")},
		{0.8, Hex("#ffff00")}, {1, Hex("#ffffff")},
	},
	"Grayscale": {
		{0, Hex("#000000")}, {0.2, Hex("#404040")}, {0.5, Hex("#7f7f80")},
		{0.8, Hex("#bfbfbf")}, {1, Hex("#ffffff")},
	},
	// Insar is cyclic: both ends share a color so wrapped phase reads continuously.
	"Insar": {
		{0, Hex("#ff0000")}, {1. / 6, Hex("#ffff00")}, {2. / 6, Hex("#00ff00")},
		{3. / 6, Hex("#00ffff")}, {4. / 6, Hex("#0000ff")}, {5. / 6, Hex("#ff00ff")},
		{1, Hex("#ff0000")},
	},
	"Jet": {
		{0, Hex("#00007f")}, {0.125, Hex("#0000ff")}, {0.375, Hex("#00ffff")},
		{0.625, Hex("#ffff00")}, {0.875, Hex("#ff0000")}, {1, Hex("#7f0000")},
	},
	"Hot": {
		{0, Hex("#0b0000")}, {0.375, Hex("#ff0000")}, {0.75, Hex("#ffff00")},
		{1, Hex("#ffffff")},
	},
	"Cool": {
		{0, Hex("#00ffff")}, {1, Hex("#ff00ff")},
	},
	"Seismic": {
		{0, Hex("#00004c")}, {0.25, Hex("#0000ff")}, {0.5, Hex("#ffffff")},
		{0.75, Hex("#ff0000")}, {1, Hex("#7f0000")},
	},
}

// Registry maps table names to stop lists. Lookups ignore case.
// The zero value is an empty registry.
type Registry struct {
	names map[string]string // lowercase -> display name
	maps  map[string][]Stop
}

// NewRegistry returns a registry holding a copy of the builtin tables.
func NewRegistry() *Registry {
	r := &Registry{}
	for name, stops := range builtin {
		r.put(name, stops)
	}
	return r
}

// Add registers or replaces a table. Stops must be valid, see [Validate].
func (r *Registry) Add(name string, stops []Stop) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty color map name")
	}
	if err := Validate(stops); err != nil {
		return fmt.Errorf("color map %q: %w", name, err)
	}
	r.put(name, stops)
	return nil
}

// Stops returns a copy of the named table.
func (r *Registry) Stops(name string) ([]Stop, bool) {
	if r == nil {
		return nil, false
	}
	stops, ok := r.maps[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return append([]Stop(nil), stops...), true
}

// Names returns the registered table names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.names))
	for _, display := range r.names {
		names = append(names, display)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) put(name string, stops []Stop) {
	if r.maps == nil {
		r.maps = make(map[string][]Stop)
		r.names = make(map[string]string)
	}
	key := strings.ToLower(name)
	r.maps[key] = append([]Stop(nil), stops...)
	r.names[key] = name
}

// Validate checks that stops are non-empty, positioned in [0,1] in
// non-decreasing order and that every color resolves.
func Validate(stops []Stop) error {
	_, err := resolveStops(stops)
	return err
}

type rgbStop struct {
	pos float64
	c   RGB
}

func resolveStops(stops []Stop) ([]rgbStop, error) {
	if len(stops) == 0 {
		return nil, errors.New("no color stops")
	}
	resolved := make([]rgbStop, len(stops))
	for i, s := range stops {
		if math.IsNaN(s.Pos) || s.Pos < 0 || s.Pos > 1 {
			return nil, fmt.Errorf("stop %d position %g outside [0,1]", i, s.Pos)
		}
		if i > 0 && s.Pos < stops[i-1].Pos {
			return nil, fmt.Errorf("stop %d position %g decreases", i, s.Pos)
		}
		c, err := Resolve(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		resolved[i] = rgbStop{pos: s.Pos, c: c}
	}
	return resolved, nil
}

func mustResolveBuiltin(name string) []rgbStop {
	stops, err := resolveStops(builtin[name])
	if err != nil {
		panic("bug: builtin color map " + name + ": " + err.Error())
	}
	return stops
}
