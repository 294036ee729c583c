//go:build headless

package emulator

import "fmt"

func newSDLOutput(Config) (Output, error) {
	return nil, fmt.Errorf("%w: %s not built in headless mode", errBackend, BackendSDL)
}

func newEbitenOutput(Config) (Output, error) {
	return nil, fmt.Errorf("%w: %s not built in headless mode", errBackend, BackendEbiten)
}
