// Package raster runs a draw call on the CPU: geometry goes through the
// position stage, triangles are scan converted over the viewport, and the
// decode stage shades every covered pixel.
//
// Rows are split into bands that are shaded concurrently. Each pixel is
// written by exactly one invocation and no invocation reads another's
// output.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"runtime"

	"chip8screen/chip8/bitmap"
	"chip8screen/chip8/shader"

	"golang.org/x/sync/errgroup"
)

// MaxDimension bounds either side of a render target.
const MaxDimension = 1 << 14

var (
	ErrViewportMismatch = errors.New("raster: viewport does not match bitmap size times scale")
	ErrTooLarge         = errors.New("raster: render target too large")
	errBadMesh          = errors.New("raster: invalid mesh")
)

type Viewport struct {
	Width  int
	Height int
}

// ViewportFor is the only viewport a bitmap of geometry g can be drawn into
// at scale s.
func ViewportFor(g bitmap.Geometry, s shader.Scale) Viewport {
	return Viewport{
		Width:  g.Width * int(s),
		Height: g.Height * int(s),
	}
}

func (v Viewport) Rect() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Width > MaxDimension || v.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, v.Width, v.Height)
	}
	return nil
}

// Mesh is a triangle list. Without indices every three vertices form a
// triangle.
type Mesh struct {
	Vertices []shader.Vec3
	Indices  []uint32
}

// Quad covers the viewport with two triangles.
func Quad() Mesh {
	return Mesh{
		Vertices: []shader.Vec3{
			{-1, -1, 0},
			{1, -1, 0},
			{1, 1, 0},
			{-1, 1, 0},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Triangle covers the viewport with a single triangle twice its size. The
// parts outside the viewport are never shaded.
func Triangle() Mesh {
	return Mesh{
		Vertices: []shader.Vec3{
			{-1, -1, 0},
			{-1, 3, 0},
			{3, -1, 0},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func (m Mesh) triangles() int {
	if m.Indices == nil {
		return len(m.Vertices) / 3
	}
	return len(m.Indices) / 3
}

func (m Mesh) index(i int) int {
	if m.Indices == nil {
		return i
	}
	return int(m.Indices[i])
}

func (m Mesh) Validate() error {
	n := len(m.Vertices)
	if m.Indices != nil {
		n = len(m.Indices)
	}
	if n%3 != 0 {
		return fmt.Errorf("%w: %d vertices is not a triangle list", errBadMesh, n)
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d out of range", errBadMesh, i)
		}
	}
	return nil
}

type Pipeline struct {
	// Workers caps how many bands are shaded at once. Zero means
	// GOMAXPROCS.
	Workers int

	// Logger receives a line per draw call. Nil discards.
	Logger *log.Logger
}

var discard = log.New(io.Discard, "", 0)

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return discard
	}
	return p.Logger
}

// Render allocates a target of the right size and fills it by drawing Quad.
func (p *Pipeline) Render(ctx context.Context, u shader.Uniforms) (*image.RGBA, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	vp := ViewportFor(u.Bitmap.Geometry, u.Scale)
	if err := vp.Validate(); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(vp.Rect())
	if err := p.Draw(ctx, dst, Quad(), u); err != nil {
		return nil, err
	}
	return dst, nil
}

// Draw shades every pixel of dst covered by m. The bounds of dst are the
// viewport and must equal ViewportFor the bitmap and scale in u; the decode
// stage relies on it and does not check.
func (p *Pipeline) Draw(ctx context.Context, dst *image.RGBA, m Mesh, u shader.Uniforms) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	b := dst.Bounds()
	vp := Viewport{Width: b.Dx(), Height: b.Dy()}
	if err := vp.Validate(); err != nil {
		return err
	}
	if want := ViewportFor(u.Bitmap.Geometry, u.Scale); vp != want {
		return fmt.Errorf("%w: target is %dx%d, want %dx%d", ErrViewportMismatch, vp.Width, vp.Height, want.Width, want.Height)
	}

	tris := setup(m, vp)
	if len(tris) == 0 {
		return nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bandHeight := (vp.Height + workers*4 - 1) / (workers * 4)
	if bandHeight < 1 {
		bandHeight = 1
	}

	bands := (vp.Height + bandHeight - 1) / bandHeight
	p.logger().Printf("raster: %d triangles over %dx%d in %d bands on %d workers", len(tris), vp.Width, vp.Height, bands, workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for top := 0; top < vp.Height; top += bandHeight {
		bottom := min(top+bandHeight, vp.Height)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := range tris {
				shade(dst, &tris[i], top, bottom, vp, u)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger().Printf("raster: draw stopped: %v", err)
		return err
	}
	return nil
}

type point struct {
	x, y float64
}

// triangle is a triangle in window coordinates, wound so that its area is
// positive, together with its bounding box clipped to the viewport.
type triangle struct {
	v          [3]point
	area       float64
	topLeft    [3]bool
	minX, maxX int
	minY, maxY int
}

// setup runs the position stage on every vertex and maps the result to
// window coordinates with the origin at the top-left corner.
func setup(m Mesh, vp Viewport) []triangle {
	w := float64(vp.Width)
	h := float64(vp.Height)

	window := func(v shader.Vec3) point {
		pos := shader.Position(v)
		x := float64(pos[0] / pos[3])
		y := float64(pos[1] / pos[3])
		return point{
			x: (x + 1) / 2 * w,
			y: (1 - y) / 2 * h,
		}
	}

	tris := make([]triangle, 0, m.triangles())
	for t := 0; t < m.triangles(); t++ {
		a := window(m.Vertices[m.index(t*3)])
		b := window(m.Vertices[m.index(t*3+1)])
		c := window(m.Vertices[m.index(t*3+2)])

		area := edge(a, b, c)
		if area == 0 {
			continue
		}
		if area < 0 {
			b, c = c, b
			area = -area
		}

		tri := triangle{
			v:    [3]point{a, b, c},
			area: area,
			minX: clamp(int(math.Floor(math.Min(a.x, math.Min(b.x, c.x)))), 0, vp.Width),
			maxX: clamp(int(math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))), 0, vp.Width),
			minY: clamp(int(math.Floor(math.Min(a.y, math.Min(b.y, c.y)))), 0, vp.Height),
			maxY: clamp(int(math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))), 0, vp.Height),
		}
		for i := range tri.v {
			tri.topLeft[i] = isTopLeft(tri.v[i], tri.v[(i+1)%3])
		}
		if tri.minX == tri.maxX || tri.minY == tri.maxY {
			continue
		}
		tris = append(tris, tri)
	}
	return tris
}

// shade runs the decode stage over the rows [top, bottom) of t.
func shade(dst *image.RGBA, t *triangle, top, bottom int, vp Viewport, u shader.Uniforms) {
	top = max(top, t.minY)
	bottom = min(bottom, t.maxY)
	origin := dst.Bounds().Min

	for py := top; py < bottom; py++ {
		for px := t.minX; px < t.maxX; px++ {
			p := point{float64(px) + 0.5, float64(py) + 0.5}
			if !t.covers(p) {
				continue
			}
			dst.SetRGBA(origin.X+px, origin.Y+py, shader.Decode(float32(p.x), float32(p.y), u))
		}
	}
}

func (t *triangle) covers(p point) bool {
	for i := range t.v {
		e := edge(t.v[i], t.v[(i+1)%3], p)
		if e < 0 || (e == 0 && !t.topLeft[i]) {
			return false
		}
	}
	return true
}

// edge is positive when p lies on the inner side of a->b for a triangle
// with positive area.
func edge(a, b, p point) float64 {
	return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
}

// isTopLeft applies the top-left fill rule so that a pixel centre lying
// exactly on an edge shared by two triangles is shaded once. With y growing
// down and positive winding, a top edge runs rightwards and a left edge
// runs upwards.
func isTopLeft(a, b point) bool {
	dx := b.x - a.x
	dy := b.y - a.y
	return (dy == 0 && dx > 0) || dy < 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
