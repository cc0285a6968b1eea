package bufferpool

import (
	"fmt"

	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
)

// clockCursor is the shared hand of the second-chance sweep. It must only be
// advanced under the pool latch.
type clockCursor struct {
	hand uint64
	size uint64
}

func newClockCursor(size uint64) clockCursor {
	// the first advance lands on frame 0
	return clockCursor{
		hand: size - 1,
		size: size,
	}
}

func (c *clockCursor) advance() uint64 {
	c.hand = (c.hand + 1) % c.size

	return c.hand
}

// allocateFrame runs the clock sweep and hands back a free slot, evicting a
// resident page when it has to. A set refBit buys a frame exactly one
// reprieve per pass; a pinned frame is never selected. The sweep is bounded:
// after 2N+1 advances without a victim every frame must be pinned and the
// pool is exhausted. RefBit clears applied on the way are kept, they only
// shorten future reprieves.
func (m *Manager) allocateFrame() (uint64, error) {
	for spins := uint64(0); spins <= 2*m.poolSize; spins++ {
		frameID := m.cursor.advance()
		desc := &m.descTable[frameID]

		if !desc.valid {
			return frameID, nil
		}

		if desc.refBit {
			// second chance
			desc.refBit = false

			continue
		}

		if desc.pinCount > 0 {
			continue
		}

		if err := m.evict(frameID); err != nil {
			return noFrame, err
		}

		return frameID, nil
	}

	return noFrame, ErrPoolExhausted
}

// evict writes the victim back if it is dirty, drops its directory entry and
// frees the descriptor. On a failed write-back everything is left in place
// so the error can be retried.
func (m *Manager) evict(frameID uint64) error {
	desc := &m.descTable[frameID]
	assert.Assert(
		desc.valid && desc.pinCount == 0,
		"frame %d is not evictable: %+v",
		frameID,
		desc,
	)

	if desc.dirty {
		store := m.storeFor(desc.owner.FileID)
		if err := store.WritePage(m.frames[frameID].Data()); err != nil {
			return fmt.Errorf("failed to write back victim page %+v: %w", desc.owner, err)
		}
		desc.dirty = false
	}

	m.dir.remove(desc.owner)
	desc.reset()

	return nil
}
