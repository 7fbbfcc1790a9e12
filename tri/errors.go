package tri

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch reports an array or matrix whose shape disagrees with
	// the element or node count it belongs to.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrIndexOutOfRange reports an element corner outside [0, nNode).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrIO reports a destination that could not be created, written or flushed.
	// Output produced by a call that failed this way must be discarded.
	ErrIO = errors.New("i/o error")
)

// IndexError identifies the element corner that references a missing node.
// It matches both ErrIndexOutOfRange and ErrDimensionMismatch.
type IndexError struct {
	Element string // "triangle" or "quad"
	Number  int    // zero based element number
	Corner  int
	Node    int // zero based node index as supplied
	NNode   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %s %d corner %d references node %d, valid range is [0,%d)",
		ErrIndexOutOfRange, e.Element, e.Number, e.Corner, e.Node, e.NNode)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange || target == ErrDimensionMismatch
}

func dimensionError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDimensionMismatch, fmt.Sprintf(format, args...))
}

func ioError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
