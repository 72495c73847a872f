package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when a key is queued twice in one load pass.
	ErrDuplicateKey = errors.New("engine: duplicate asset key")
	// ErrUnknownTexture is returned when a game object references an unloaded key.
	ErrUnknownTexture = errors.New("engine: unknown texture")
	// ErrBadFrame is returned when a spritesheet frame does not fit its image.
	ErrBadFrame = errors.New("engine: invalid spritesheet frame")
	// ErrNotBooted is returned when stepping a game that has not finished Boot.
	ErrNotBooted = errors.New("engine: game not booted")
	// ErrAlreadyBooted is returned by a second Boot call.
	ErrAlreadyBooted = errors.New("engine: game already booted")
	// ErrDestroyed is returned by any lifecycle call after Destroy.
	ErrDestroyed = errors.New("engine: game destroyed")
	// ErrPhysicsDisabled is returned when a scene needs arcade physics but the
	// config selects none.
	ErrPhysicsDisabled = errors.New("engine: arcade physics disabled")
)

// LoadError reports a failed fetch or decode of one queued asset.
type LoadError struct {
	Key string
	URI string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("engine: load %q from %s: %v", e.Key, e.URI, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
