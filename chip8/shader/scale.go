package shader

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrZeroScale is returned when a scale factor of zero reaches validation.
// The decode stage divides by the scale and cannot run with it.
var ErrZeroScale = errors.New("shader: scale factor must be at least 1")

// Scale is the integer magnification applied to both axes.
type Scale uint32

func (s Scale) Validate() error {
	if s == 0 {
		return ErrZeroScale
	}
	return nil
}

// ParseScale parses and validates a user supplied scale factor.
func ParseScale(v string) (Scale, error) {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("shader: invalid scale factor %q: %w", v, err)
	}
	s := Scale(n)
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return s, nil
}
