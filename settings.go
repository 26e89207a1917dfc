package papercraft

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the tunable constants of the layout engine.
type Settings struct {
	// SnapEpsilon is the per-coordinate distance under which two edge ends
	// count as coincident.
	SnapEpsilon float64 `yaml:"snap_epsilon"`
	// BreakOffset is how far each half of a split island is pushed away
	// along the broken edge normal.
	BreakOffset float64 `yaml:"break_offset"`
	// OverlapTolerance is the penetration depth still accepted between two
	// triangles of one island.
	OverlapTolerance float64 `yaml:"overlap_tolerance"`
	// DepthStep separates the render depth of consecutive groups.
	DepthStep float64 `yaml:"depth_step"`
	// FoldMaxFlatAngle is the dihedral angle in degrees under which a fold
	// line is not drawn.
	FoldMaxFlatAngle float64 `yaml:"fold_max_flat_angle"`
	// FlapHeight is the width of the glue tabs in layout units.
	FlapHeight float64 `yaml:"flap_height"`
	// GroupGap is the spacing between islands after the initial unfold.
	GroupGap float64 `yaml:"group_gap"`
}

func DefaultSettings() Settings {
	return Settings{
		SnapEpsilon:      0.001,
		BreakOffset:      1.0,
		OverlapTolerance: 1e-6,
		DepthStep:        0.01,
		FoldMaxFlatAngle: 1.0,
		FlapHeight:       0.5,
		GroupGap:         1.0,
	}
}

// Validate reports the first setting that is out of range.
func (s Settings) Validate() error {
	switch {
	case s.SnapEpsilon <= 0:
		return fmt.Errorf("snap_epsilon must be positive, got %v: %w", s.SnapEpsilon, ErrInvalidSettings)
	case s.BreakOffset < 0:
		return fmt.Errorf("break_offset must not be negative, got %v: %w", s.BreakOffset, ErrInvalidSettings)
	case s.OverlapTolerance < 0:
		return fmt.Errorf("overlap_tolerance must not be negative, got %v: %w", s.OverlapTolerance, ErrInvalidSettings)
	case s.DepthStep <= 0:
		return fmt.Errorf("depth_step must be positive, got %v: %w", s.DepthStep, ErrInvalidSettings)
	case s.FoldMaxFlatAngle < 0 || s.FoldMaxFlatAngle >= 180:
		return fmt.Errorf("fold_max_flat_angle must be in [0, 180), got %v: %w", s.FoldMaxFlatAngle, ErrInvalidSettings)
	case s.FlapHeight < 0:
		return fmt.Errorf("flap_height must not be negative, got %v: %w", s.FlapHeight, ErrInvalidSettings)
	case s.GroupGap < 0:
		return fmt.Errorf("group_gap must not be negative, got %v: %w", s.GroupGap, ErrInvalidSettings)
	}
	return nil
}

// ParseSettings reads YAML from r. Keys that are missing keep their
// default value.
func ParseSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads settings from a YAML file.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	defer f.Close()
	return ParseSettings(f)
}

// WriteSettings encodes s as YAML.
func WriteSettings(w io.Writer, s Settings) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
