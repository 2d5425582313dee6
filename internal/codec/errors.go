package codec

import "github.com/pkg/errors"

// PositionError is raised when a read, write, or put would cross the
// buffer's current size (spec.md §4.2, "position" fault kind). It carries
// enough context for a dispatcher to log {operation, position,
// currentSize, valueSize} without touching the buffer itself — no cursor
// is advanced when this is returned.
type PositionError struct {
	Op         string
	Position   int
	Size       int
	ValueSize  int
	underlying error
}

func (e *PositionError) Error() string {
	return errors.Wrapf(e.underlying, "codec: %s at position %d would exceed size %d (value size %d)",
		e.Op, e.Position, e.Size, e.ValueSize).Error()
}

func (e *PositionError) Unwrap() error { return e.underlying }

func newPositionError(op string, pos, size, valueSize int) error {
	return &PositionError{
		Op: op, Position: pos, Size: size, ValueSize: valueSize,
		underlying: errors.New("position fault"),
	}
}

// SourceError is raised for a zero-length or nil copy source (spec.md
// §4.2, "source" fault kind).
type SourceError struct {
	Op         string
	Position   int
	Size       int
	ValueSize  int
	underlying error
}

func (e *SourceError) Error() string {
	return errors.Wrapf(e.underlying, "codec: %s at position %d has invalid source (size %d, value size %d)",
		e.Op, e.Position, e.Size, e.ValueSize).Error()
}

func (e *SourceError) Unwrap() error { return e.underlying }

func newSourceError(op string, pos, size, valueSize int) error {
	return &SourceError{
		Op: op, Position: pos, Size: size, ValueSize: valueSize,
		underlying: errors.New("source fault"),
	}
}
