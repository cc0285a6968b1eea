package bufferpool

import "github.com/Blackdeer1524/FrameDB/src/pkg/common"

// frameDescriptor carries the bookkeeping of one pool frame. Frame identity
// is the slot index, so descriptors live by value in a slice co-indexed with
// the frame arena and are only ever touched under the pool latch.
//
// Invariants: pinCount > 0 implies valid; dirty implies valid; at most one
// valid descriptor owns a given page identity (the directory enforces this).
type frameDescriptor struct {
	owner    common.PageIdentity
	valid    bool
	dirty    bool
	refBit   bool
	pinCount uint64
}

// reset returns the descriptor to the free state.
func (d *frameDescriptor) reset() {
	d.owner = common.NilPageIdentity()
	d.valid = false
	d.dirty = false
	d.refBit = false
	d.pinCount = 0
}

// set claims the frame for a freshly loaded page: clean, referenced and
// pinned once by the caller that triggered the load.
func (d *frameDescriptor) set(owner common.PageIdentity) {
	d.owner = owner
	d.valid = true
	d.dirty = false
	d.refBit = true
	d.pinCount = 1
}
