package emulator

import (
	"context"
	"fmt"
	"image/png"

	"chip8screen/chip8/frame"

	"golang.org/x/image/bmp"
)

// headlessOutput renders the current frame once and encodes it.
type headlessOutput struct {
	cfg Config
}

func newHeadlessOutput(cfg Config) *headlessOutput {
	return &headlessOutput{cfg: cfg}
}

func (h *headlessOutput) Run(ctx context.Context, buf *frame.Buffer) error {
	r := newRenderer(h.cfg, buf.Snapshot().Bitmap.Geometry)
	if _, err := r.render(ctx, buf); err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}

	var err error
	switch h.cfg.Format {
	case FormatBMP:
		err = bmp.Encode(h.cfg.Output, r.target)
	default:
		err = png.Encode(h.cfg.Output, r.target)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", h.cfg.Format, err)
	}

	vp := r.viewport()
	h.cfg.Logger.Printf("rendered frame %d at %dx%d as %s", r.generation, vp.Width, vp.Height, h.cfg.Format)
	return nil
}
