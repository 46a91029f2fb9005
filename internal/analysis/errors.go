package analysis

import (
	"errors"
	"fmt"
)

// ErrDecode indicates that the input bytes could not be decoded as an image.
var ErrDecode = errors.New("could not decode image")

// DetectionError wraps a failure of the external detection engine, either a
// failed call or output the adapter could not interpret.
type DetectionError struct {
	Err error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("detection engine: %v", e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}
