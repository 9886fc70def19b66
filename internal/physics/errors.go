package physics

import "errors"

var (
	// ErrNoSpaceBlock indicates a scene that does not start with a SPACE block.
	ErrNoSpaceBlock = errors.New("physics: scene has no SPACE block")

	// ErrUnknownBlock indicates a block kind other than SPACE or BODY.
	ErrUnknownBlock = errors.New("physics: unknown block kind")

	// ErrInvalidState indicates a NaN or Inf body position or velocity.
	ErrInvalidState = errors.New("physics: invalid state (NaN or Inf detected)")
)
