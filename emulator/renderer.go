package emulator

import (
	"context"
	"image"

	"chip8screen/chip8/bitmap"
	"chip8screen/chip8/frame"
	"chip8screen/chip8/raster"
	"chip8screen/chip8/shader"
)

// renderer owns the render target shared by the backends and only redraws
// it when a new frame has been published.
type renderer struct {
	pipeline raster.Pipeline
	scale    shader.Scale
	target   *image.RGBA

	generation uint64
	drawn      bool
}

func newRenderer(cfg Config, g bitmap.Geometry) *renderer {
	return &renderer{
		pipeline: raster.Pipeline{
			Workers: cfg.Workers,
			Logger:  cfg.Logger,
		},
		scale:    cfg.Scale,
		target:   image.NewRGBA(raster.ViewportFor(g, cfg.Scale).Rect()),
	}
}

func (r *renderer) viewport() raster.Viewport {
	b := r.target.Bounds()
	return raster.Viewport{Width: b.Dx(), Height: b.Dy()}
}

// render draws the buffer's current frame into the target. It reports
// whether the target changed.
func (r *renderer) render(ctx context.Context, buf *frame.Buffer) (bool, error) {
	snap := buf.Snapshot()
	if r.drawn && snap.Generation == r.generation {
		return false, nil
	}

	u := shader.Uniforms{
		Scale:  r.scale,
		Bitmap: snap.Bitmap,
	}
	if err := r.pipeline.Draw(ctx, r.target, raster.Quad(), u); err != nil {
		return false, err
	}

	r.generation = snap.Generation
	r.drawn = true
	return true, nil
}
