//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/tabplayer/internal/engine"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct {
	handle *engine.Handle
}

// New returns a no-op adapter on non-Linux platforms. It still takes
// ownership of handle.
func New(handle *engine.Handle, _ engine.PositionReader, _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{handle: handle}, nil
}

// Close releases the handle.
func (a *Adapter) Close() error {
	a.handle.Close()
	return nil
}
