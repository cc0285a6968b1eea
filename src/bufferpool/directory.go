package bufferpool

import (
	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

// pageDirectory is the reverse index from page identity to frame slot. It is
// kept exactly in sync with the valid descriptors: every insert and remove
// is paired with the matching descriptor transition under the pool latch.
// Duplicate inserts and removes of missing keys are programming errors.
type pageDirectory struct {
	entries map[common.PageIdentity]uint64
}

func newPageDirectory() pageDirectory {
	return pageDirectory{entries: map[common.PageIdentity]uint64{}}
}

func (d pageDirectory) lookup(ident common.PageIdentity) (uint64, bool) {
	frameID, ok := d.entries[ident]

	return frameID, ok
}

func (d pageDirectory) insert(ident common.PageIdentity, frameID uint64) {
	_, ok := d.entries[ident]
	assert.Assert(!ok, "duplicate directory entry for page %+v", ident)

	d.entries[ident] = frameID
}

func (d pageDirectory) remove(ident common.PageIdentity) {
	_, ok := d.entries[ident]
	assert.Assert(ok, "removing a missing directory entry for page %+v", ident)

	delete(d.entries, ident)
}

func (d pageDirectory) size() int {
	return len(d.entries)
}
