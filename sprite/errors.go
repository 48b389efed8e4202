package sprite

import (
	"fmt"

	"github.com/pkg/errors"
)

// IOError reports a sprite folder or sprite file that could not be read,
// most commonly because it does not exist.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("sprite: cannot read %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
func (e *IOError) Cause() error  { return e.Err }

// DecodeError reports a sprite file that could be read but is not a valid
// image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sprite: cannot decode %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) Cause() error  { return e.Err }

// LoadError names the sprite that stopped a scan. Err is an *IOError or a
// *DecodeError.
type LoadError struct {
	// Path is relative to the manifest directory, slash-separated.
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading sprite %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
func (e *LoadError) Cause() error  { return e.Err }

// IsIOError reports whether err, or anything it wraps, is an *IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// IsDecodeError reports whether err, or anything it wraps, is a *DecodeError.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}
