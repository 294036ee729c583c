// Package emulator is the host side of the display: it validates the
// configuration, hands frames to a frame.Buffer and runs a backend that
// puts them on screen or into an image file.
package emulator

import (
	"context"
	"fmt"

	"chip8screen/chip8/bitmap"
	"chip8screen/chip8/frame"
)

// Output presents frames from buf until ctx is done or the user quits.
type Output interface {
	Run(ctx context.Context, buf *frame.Buffer) error
}

// NewOutput returns the backend named by cfg.Backend.
func NewOutput(cfg Config) (Output, error) {
	cfg = cfg.withDefaults()

	switch cfg.Backend {
	case BackendSDL:
		return newSDLOutput(cfg)
	case BackendEbiten:
		return newEbitenOutput(cfg)
	case BackendHeadless:
		return newHeadlessOutput(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", errBackend, cfg.Backend)
}

// Run presents src with the configured backend.
func Run(ctx context.Context, cfg Config, src *bitmap.Bitmap) error {
	cfg = cfg.withDefaults()

	if err := cfg.Validate(src.Geometry); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out, err := NewOutput(cfg)
	if err != nil {
		return fmt.Errorf("failed to init %s backend: %w", cfg.Backend, err)
	}

	buf := frame.NewBuffer(src.Geometry)
	buf.Publish(src)

	cfg.Logger.Printf("presenting %dx%d display at scale %d with %s backend", src.Width, src.Height, cfg.Scale, cfg.Backend)

	return out.Run(ctx, buf)
}
