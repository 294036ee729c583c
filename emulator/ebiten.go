//go:build !headless

package emulator

import (
	"context"
	"fmt"

	"chip8screen/chip8/frame"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type ebitenOutput struct {
	cfg Config
}

func newEbitenOutput(cfg Config) (Output, error) {
	return &ebitenOutput{cfg: cfg}, nil
}

// game implements ebiten.Game. The logical screen is the viewport, so
// ebiten never filters the rendered image.
type game struct {
	ctx    context.Context
	cfg    Config
	buf    *frame.Buffer
	r      *renderer
	screen *ebiten.Image
	err    error
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	vp := g.r.viewport()
	if g.screen == nil {
		g.screen = ebiten.NewImage(vp.Width, vp.Height)
	}

	updated, err := g.r.render(g.ctx, g.buf)
	if err != nil {
		g.err = fmt.Errorf("failed to render frame: %w", err)
		return
	}
	if updated {
		g.cfg.Logger.Printf("ebiten: frame %d", g.r.generation)
		g.screen.WritePixels(g.r.target.Pix)
	}

	screen.DrawImage(g.screen, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	vp := g.r.viewport()
	return vp.Width, vp.Height
}

// Run must be called from the main goroutine.
func (e *ebitenOutput) Run(ctx context.Context, buf *frame.Buffer) error {
	g := &game{
		ctx: ctx,
		cfg: e.cfg,
		buf: buf,
		r:   newRenderer(e.cfg, buf.Snapshot().Bitmap.Geometry),
	}

	vp := g.r.viewport()
	ebiten.SetWindowSize(vp.Width, vp.Height)
	ebiten.SetWindowTitle(e.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetVsyncEnabled(false)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebiten: %w", err)
	}
	return nil
}
