// Package prefs stores named settings presets: which gate types a new
// session starts with disabled. The file is TOML and is created with
// defaults on first use.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/jask/gatecharter/internal/catalog"
)

// LastPreset names the settings used by the most recent session.
const LastPreset = "last"

var ErrUnknownPreset = errors.New("unknown preset")

// ToggleTypes are the gate types a user may switch off for a session.
var ToggleTypes = []catalog.GateType{
	catalog.Traversable,
	catalog.Golden,
	catalog.PVP,
	catalog.Boss,
	catalog.Warp,
	catalog.Objective,
}

type Preset struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Disabled    []string `toml:"disabled"`
}

// presetNamespace scopes preset ids so the same name always maps to the
// same id across machines.
var presetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gatecharter:preset"))

// ID returns the stable id derived from the preset name.
func (p Preset) ID() string {
	return uuid.NewSHA1(presetNamespace, []byte(p.Name)).String()
}

// Types returns the preset's disabled types, ignoring unknown names.
func (p Preset) Types() catalog.TypeSet {
	return catalog.ParseTypeSet(p.Disabled)
}

type lastSettings struct {
	Disabled []string `toml:"disabled"`
}

type presetsFile struct {
	Presets []Preset     `toml:"preset"`
	Last    lastSettings `toml:"last"`
}

const defaultPresetsTOML = `# Gatecharter settings presets
# Each [[preset]] lists gate types disabled for a new session.
# Known types: Traversable, Golden, PVP, Boss, Warp, Objective.

[[preset]]
name = "all"
description = "Every gate type enabled"
disabled = []

[[preset]]
name = "no-pvp"
description = "Skip PVP gates"
disabled = ["PVP"]

[[preset]]
name = "story"
description = "Story route only: no PVP, golden or warp gates"
disabled = ["PVP", "Golden", "Warp"]

[last]
disabled = []
`

// Store reads and writes the presets file.
type Store struct {
	path string
	file presetsFile
}

// Open loads the presets at path, writing the default file when missing.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create presets dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultPresetsTOML), 0o644); err != nil {
			return nil, fmt.Errorf("write default presets: %w", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	file, err := parsePresets(data)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, file: file}, nil
}

func parsePresets(data []byte) (presetsFile, error) {
	var f presetsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return presetsFile{}, fmt.Errorf("parse presets: %w", err)
	}
	seen := map[string]bool{}
	for i, p := range f.Presets {
		if p.Name == "" {
			return presetsFile{}, fmt.Errorf("preset[%d]: name is required", i)
		}
		if p.Name == LastPreset {
			return presetsFile{}, fmt.Errorf("preset[%d]: name %q is reserved", i, LastPreset)
		}
		if seen[p.Name] {
			return presetsFile{}, fmt.Errorf("preset[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		for _, t := range p.Disabled {
			if _, ok := catalog.ParseGateType(t); !ok {
				return presetsFile{}, fmt.Errorf("preset %q: %w: %q", p.Name, catalog.ErrUnknownGateType, t)
			}
		}
	}
	return f, nil
}

func (s *Store) Path() string { return s.path }

// Presets returns the configured presets in file order.
func (s *Store) Presets() []Preset {
	return slices.Clone(s.file.Presets)
}

// Resolve returns the disabled types for the preset named or identified by
// name. LastPreset resolves to the most recent session's settings.
func (s *Store) Resolve(name string) (catalog.TypeSet, error) {
	if name == LastPreset {
		return s.Last(), nil
	}
	for _, p := range s.file.Presets {
		if p.Name == name || p.ID() == name {
			return p.Types(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Last returns the disabled types of the most recent session.
func (s *Store) Last() catalog.TypeSet {
	return catalog.ParseTypeSet(s.file.Last.Disabled)
}

// SetLast remembers types as the most recent settings and saves the file.
func (s *Store) SetLast(types catalog.TypeSet) error {
	s.file.Last.Disabled = types.Strings()
	return s.save()
}

// Put adds or replaces a preset and saves the file.
func (s *Store) Put(p Preset) error {
	if p.Name == "" || p.Name == LastPreset {
		return fmt.Errorf("invalid preset name %q", p.Name)
	}
	if i := slices.IndexFunc(s.file.Presets, func(q Preset) bool { return q.Name == p.Name }); i >= 0 {
		s.file.Presets[i] = p
	} else {
		s.file.Presets = append(s.file.Presets, p)
	}
	return s.save()
}

func (s *Store) save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.file); err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}
	return os.Rename(tmp, s.path)
}
