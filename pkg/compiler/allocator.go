package compiler

import (
	"fmt"
	"math"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// IDAllocator hands out sprite ids for one compilation run: 1, 2, 3, ...
type IDAllocator struct {
	next uint32
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh id, strictly greater than every id returned before.
func (a *IDAllocator) Next() (uint32, error) {
	if a.next == math.MaxUint32 {
		return 0, fmt.Errorf("%w: sprite id space exhausted", appearance.ErrInvalidData)
	}
	id := a.next
	a.next++
	return id, nil
}

// Allocated returns how many ids have been handed out.
func (a *IDAllocator) Allocated() int {
	return int(a.next - 1)
}
