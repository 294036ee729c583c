package emulator

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"chip8screen/chip8/bitmap"
	"chip8screen/chip8/raster"
	"chip8screen/chip8/shader"
)

const (
	DefaultScale shader.Scale = 10
	DefaultTitle              = "Chip-8 Emulator"
)

const (
	BackendSDL      = "sdl"
	BackendEbiten   = "ebiten"
	BackendHeadless = "headless"
)

const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

var (
	errBackend = errors.New("emulator: unknown backend")
	errFormat  = errors.New("emulator: unknown image format")
	errNoSink  = errors.New("emulator: headless backend needs an output writer")
)

// Config is everything the host decides before the first draw call.
type Config struct {
	Scale   shader.Scale
	Backend string
	Title   string

	// Workers caps concurrent shading bands. Zero means GOMAXPROCS.
	Workers int

	Logger *log.Logger

	// Output and Format are used by the headless backend only.
	Output io.Writer
	Format string
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendSDL
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.Format == "" {
		c.Format = FormatPNG
	}
	return c
}

// Validate rejects configurations that would make a draw call undefined.
// It must pass before anything is rendered.
func (c Config) Validate(g bitmap.Geometry) error {
	if err := c.Scale.Validate(); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := raster.ViewportFor(g, c.Scale).Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("emulator: negative worker count %d", c.Workers)
	}

	switch c.Backend {
	case BackendSDL, BackendEbiten:
	case BackendHeadless:
		if c.Output == nil {
			return errNoSink
		}
		if c.Format != FormatPNG && c.Format != FormatBMP {
			return fmt.Errorf("%w: %q", errFormat, c.Format)
		}
	default:
		return fmt.Errorf("%w: %q", errBackend, c.Backend)
	}
	return nil
}

// FormatFor picks an image format from a file name, defaulting to PNG.
func FormatFor(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".bmp") {
		return FormatBMP
	}
	return FormatPNG
}
