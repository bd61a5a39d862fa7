package thicket

import "fmt"

// BoundsError reports an index outside the live range of a collection.
type BoundsError struct {
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("thicket: index %d out of range [0, %d)", e.Index, e.Len)
}

// InvalidStateError reports an operation attempted while the receiver was in
// a state that does not permit it: a degenerate camera, or a scene asked to
// begin after it ended.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("thicket: %s: %s", e.Op, e.Reason)
}
