package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"chip8screen/chip8/bitmap"
	"chip8screen/chip8/display"
	"chip8screen/chip8/shader"
	"chip8screen/emulator"

	"github.com/urfave/cli/v2"
)

func init() {
	// SDL and ebiten both want the main thread.
	runtime.LockOSThread()

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// loadSource reads a raw 256 byte framebuffer, or returns the test pattern
// when no file is given.
func loadSource(filename string) (*bitmap.Bitmap, error) {
	if filename == "" {
		return display.TestPattern(), nil
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	bm, err := bitmap.FromBytes(bitmap.Default, b)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return bm, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newConfig(c *cli.Context) (emulator.Config, error) {
	scale, err := shader.ParseScale(c.String("scale"))
	if err != nil {
		return emulator.Config{}, err
	}

	return emulator.Config{
		Scale:   scale,
		Workers: c.Int("workers"),
		Logger:  newLogger(c),
	}, nil
}

func needOutput(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		_ = cli.ShowCommandHelp(c, c.Command.Name)
		return "", cli.Exit("missing OUTPUT argument", 1)
	}
	return c.Args().First(), nil
}

// writeFile creates filename only once write has succeeded, so a failed run
// leaves any existing file as it was.
func writeFile(filename string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filename)
}

func render(c *cli.Context) error {
	filename, err := needOutput(c)
	if err != nil {
		return err
	}

	cfg, err := newConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	src, err := loadSource(c.String("input"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	cfg.Backend = emulator.BackendHeadless
	cfg.Format = c.String("format")
	if cfg.Format == "" {
		cfg.Format = emulator.FormatFor(filename)
	}

	err = writeFile(filename, func(w io.Writer) error {
		cfg.Output = w
		return emulator.Run(c.Context, cfg, src)
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func show(c *cli.Context) error {
	cfg, err := newConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	src, err := loadSource(c.String("input"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	cfg.Backend = c.String("backend")

	if err := emulator.Run(c.Context, cfg, src); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func pattern(c *cli.Context) error {
	filename, err := needOutput(c)
	if err != nil {
		return err
	}

	err = writeFile(filename, func(w io.Writer) error {
		_, err := w.Write(display.TestPattern().Bytes())
		return err
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	newLogger(c).Printf("wrote test pattern to %s", filename)

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "chip8screen"
	app.Usage = "Draw a CHIP-8 framebuffer scaled up to a window or image"
	app.Version = "1.0.0"

	inputFlag := &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "raw 256 byte framebuffer, defaults to the test pattern",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "scale",
			Aliases: []string{"s"},
			EnvVars: []string{"CHIP8_SCALE"},
			Value:   fmt.Sprint(emulator.DefaultScale),
			Usage:   "physical pixels per logical pixel",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "concurrent shading bands, 0 for one per CPU",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "render",
			Usage:     "Render a framebuffer to a PNG or BMP image",
			ArgsUsage: "OUTPUT",
			Flags: []cli.Flag{
				inputFlag,
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "png or bmp, defaults to the output file extension",
				},
			},
			Action: render,
		},
		{
			Name:  "show",
			Usage: "Show a framebuffer in a window",
			Flags: []cli.Flag{
				inputFlag,
				&cli.StringFlag{
					Name:  "backend",
					Value: emulator.BackendSDL,
					Usage: "sdl or ebiten",
				},
			},
			Action: show,
		},
		{
			Name:      "pattern",
			Usage:     "Write the test pattern as a raw framebuffer",
			ArgsUsage: "OUTPUT",
			Action:    pattern,
		},
	}

	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
