package galgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/galgo/engine"
)

var (
	// ErrNotFound is returned when an image is not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPage is returned when a page number below 1 is requested.
	ErrInvalidPage = errors.New("page number must be at least 1")

	// ErrInvalidImage is returned when an image is missing its id or upload time.
	ErrInvalidImage = errors.New("image must have an id and an upload time")

	// ErrBadSnapshot is returned when a snapshot cannot be parsed.
	ErrBadSnapshot = errors.New("malformed snapshot")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, engine.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, engine.ErrInvalidPage) {
		return fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}
	if errors.Is(err, engine.ErrBadSnapshot) {
		return fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	return err
}
