package data

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tickworld/server/internal/display"
)

// ErrUnknownSpecies is returned when a mob type has no species entry.
var ErrUnknownSpecies = errors.New("unknown species")

//go:embed species.yaml
var defaultSpeciesYAML []byte

// MobType names a species entry, e.g. "rabbit" or "orc_strong".
type MobType string

const (
	MobUnknown    MobType = "unknown"
	MobRabbit     MobType = "rabbit"
	MobRabbitWere MobType = "were_rabbit"
	MobSnake      MobType = "snake"
	MobOrcWeak    MobType = "orc_weak"
	MobOrcStrong  MobType = "orc_strong"
	MobPlayer     MobType = "player"
)

// Category selects a species' movement behavior.
type Category string

const (
	CategoryUnknown Category = "unknown"
	CategoryRabbit  Category = "rabbit"
	CategorySnake   Category = "snake"
	CategoryOrc     Category = "orc"
	CategoryPlayer  Category = "player"
)

// Species holds static data for a mob type loaded from YAML.
type Species struct {
	Type       MobType    `yaml:"type"`
	Name       string     `yaml:"name"`
	Category   Category   `yaml:"category"`
	Health     int        `yaml:"health"`
	Strength   int        `yaml:"strength"`
	Attacks    bool       `yaml:"attacks"`
	Appearance Appearance `yaml:"appearance"`
	Parts      []Part     `yaml:"parts"`
}

// Appearance is the body sprite of a mob. The body animates when FrameRate > 0.
type Appearance struct {
	Frames    string        `yaml:"frames"`
	FrameRate int           `yaml:"frame_rate"`
	FG        display.Color `yaml:"fg"`
	BG        display.Color `yaml:"bg"`
}

// Part is a decorative sprite attached to a mob as a child entity, e.g. an
// orc's arms. Offset is relative to the mob; FollowDir places the part at the
// mob's position plus its facing direction instead.
type Part struct {
	Frames    string        `yaml:"frames"`
	Animated  bool          `yaml:"animated"`
	FrameRate int           `yaml:"frame_rate"`
	FG        display.Color `yaml:"fg"`
	BG        display.Color `yaml:"bg"`
	Offset    [2]int        `yaml:"offset"`
	Layer     display.Layer `yaml:"layer"`
	FollowDir bool          `yaml:"follow_dir"`
}

// MaxParts is the number of part sprites a mob can track.
const MaxParts = 2

type speciesFile struct {
	Species []Species `yaml:"species"`
}

// SpeciesTable holds every species indexed by type. It is built once at
// startup and read-only afterwards.
type SpeciesTable struct {
	species map[MobType]*Species
}

// LoadSpeciesTable loads species from a YAML file. An empty path loads the
// built-in table.
func LoadSpeciesTable(path string) (*SpeciesTable, error) {
	if path == "" {
		return DefaultSpeciesTable()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read species: %w", err)
	}
	return ParseSpeciesTable(raw)
}

// DefaultSpeciesTable returns the built-in species table.
func DefaultSpeciesTable() (*SpeciesTable, error) {
	return ParseSpeciesTable(defaultSpeciesYAML)
}

// ParseSpeciesTable decodes and validates a species YAML document.
func ParseSpeciesTable(raw []byte) (*SpeciesTable, error) {
	var f speciesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse species: %w", err)
	}
	t := &SpeciesTable{species: make(map[MobType]*Species, len(f.Species))}
	for i := range f.Species {
		sp := &f.Species[i]
		if err := sp.validate(); err != nil {
			return nil, fmt.Errorf("species %q: %w", sp.Type, err)
		}
		if _, dup := t.species[sp.Type]; dup {
			return nil, fmt.Errorf("species %q: duplicate entry", sp.Type)
		}
		t.species[sp.Type] = sp
	}
	return t, nil
}

func (sp *Species) validate() error {
	switch {
	case sp.Type == "":
		return errors.New("missing type")
	case sp.Health < 0 || sp.Strength < 0:
		return errors.New("negative health or strength")
	case sp.Appearance.Frames == "":
		return errors.New("appearance needs at least one frame")
	case len(sp.Parts) > MaxParts:
		return fmt.Errorf("at most %d parts", MaxParts)
	}
	switch sp.Category {
	case CategoryUnknown, CategoryRabbit, CategorySnake, CategoryOrc, CategoryPlayer:
	case "":
		sp.Category = CategoryUnknown
	default:
		return fmt.Errorf("unknown category %q", sp.Category)
	}
	for _, p := range sp.Parts {
		if p.Frames == "" {
			return errors.New("part needs at least one frame")
		}
	}
	return nil
}

// Get returns the species for a mob type.
func (t *SpeciesTable) Get(mt MobType) (*Species, bool) {
	sp, ok := t.species[mt]
	return sp, ok
}

// Lookup is Get with an error wrapping ErrUnknownSpecies for missing types.
func (t *SpeciesTable) Lookup(mt MobType) (*Species, error) {
	sp, ok := t.species[mt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpecies, mt)
	}
	return sp, nil
}

// Count returns the number of loaded species.
func (t *SpeciesTable) Count() int {
	return len(t.species)
}

// Types returns every species type, sorted.
func (t *SpeciesTable) Types() []MobType {
	out := make([]MobType, 0, len(t.species))
	for mt := range t.species {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
