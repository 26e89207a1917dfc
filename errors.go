package papercraft

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFace is returned when a face references missing vertices or
	// has no area.
	ErrInvalidFace = errors.New("papercraft: invalid face")
	// ErrNonManifold is returned when an edge is shared by more than two faces
	// or two faces disagree on winding.
	ErrNonManifold = errors.New("papercraft: non-manifold mesh")
	// ErrCorruptState is returned when a persisted layout cannot be applied.
	ErrCorruptState = errors.New("papercraft: corrupt layout state")
	// ErrInvalidSettings is returned by Settings.Validate.
	ErrInvalidSettings = errors.New("papercraft: invalid settings")
)

// assert panics when validity does not hold. validity is a bool or a
// func() bool evaluated lazily.
func assert(statement string, validity interface{}) {
	var notValid bool
	switch v := validity.(type) {
	case func() bool:
		notValid = !v()
	case bool:
		notValid = !v
	}
	if notValid {
		panic(fmt.Sprintf("papercraft: assertion failed: %s", statement))
	}
}
