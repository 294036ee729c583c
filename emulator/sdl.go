//go:build !headless

package emulator

import (
	"context"
	"fmt"
	"image"
	"time"

	"chip8screen/chip8/frame"
	"chip8screen/chip8/raster"

	sdl "github.com/veandco/go-sdl2/sdl"
)

const pollDelay = time.Second / 60

type window struct {
	window     *sdl.Window
	renderer   *sdl.Renderer
	backbuffer *sdl.Texture
}

// newWindow opens a window exactly the size of the viewport with a
// streaming texture of the same size, so every texel lands on one window
// pixel.
func newWindow(title string, vp raster.Viewport) (*window, error) {
	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(vp.Width), int32(vp.Height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(w, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = w.Destroy()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	backbuffer, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), int32(vp.Width), int32(vp.Height))
	if err != nil {
		_ = renderer.Destroy()
		_ = w.Destroy()
		return nil, fmt.Errorf("failed to create backbuffer: %w", err)
	}

	return &window{
		window:     w,
		renderer:   renderer,
		backbuffer: backbuffer,
	}, nil
}

func (d *window) destroy() {
	_ = d.backbuffer.Destroy()
	_ = d.renderer.Destroy()
	_ = d.window.Destroy()
}

func (d *window) upload(img *image.RGBA) error {
	if err := d.backbuffer.Update(nil, img.Pix, img.Stride); err != nil {
		return fmt.Errorf("failed to update backbuffer: %w", err)
	}
	return nil
}

func (d *window) present() error {
	if err := d.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}

	if err := d.renderer.Copy(d.backbuffer, nil, nil); err != nil {
		return fmt.Errorf("failed to copy backbuffer: %w", err)
	}

	d.renderer.Present()

	return nil
}

type sdlOutput struct {
	cfg Config
}

func newSDLOutput(cfg Config) (Output, error) {
	return &sdlOutput{cfg: cfg}, nil
}

// Run must be called from the main goroutine with the OS thread locked.
func (s *sdlOutput) Run(ctx context.Context, buf *frame.Buffer) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("failed to init SDL: %w", err)
	}
	defer sdl.Quit()

	r := newRenderer(s.cfg, buf.Snapshot().Bitmap.Geometry)

	w, err := newWindow(s.cfg.Title, r.viewport())
	if err != nil {
		return err
	}
	defer w.destroy()

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					return nil
				}
			}
		}

		updated, err := r.render(ctx, buf)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to render frame: %w", err)
		}
		if updated {
			s.cfg.Logger.Printf("sdl: frame %d", r.generation)
			if err := w.upload(r.target); err != nil {
				return err
			}
		}

		if err := w.present(); err != nil {
			return fmt.Errorf("failed to present: %w", err)
		}

		// wake early when a new frame is published
		select {
		case <-ctx.Done():
			return nil
		case <-buf.Changed():
		case <-time.After(pollDelay):
		}
	}
}
