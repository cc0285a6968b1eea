package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

func TestClockCursor_WrapsAround(t *testing.T) {
	c := newClockCursor(3)

	assert.Equal(t, uint64(0), c.advance())
	assert.Equal(t, uint64(1), c.advance())
	assert.Equal(t, uint64(2), c.advance())
	assert.Equal(t, uint64(0), c.advance())
}

func TestAllocateFrame_PrefersFreeSlot(t *testing.T) {
	m := New(3, nil)

	// frame 0 resident and referenced, frames 1 and 2 free
	m.descTable[0].set(common.PageIdentity{FileID: 1, PageID: 1})
	m.dir.insert(common.PageIdentity{FileID: 1, PageID: 1}, 0)
	m.descTable[0].pinCount = 0

	frameID, err := m.allocateFrame()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), frameID)

	// the resident frame spent its reprieve but stayed in place
	assert.True(t, m.descTable[0].valid)
	assert.False(t, m.descTable[0].refBit)
}

func TestAllocateFrame_SecondChanceDegradesRefBits(t *testing.T) {
	store := NewMockPageStore(1)
	m := New(2, nil)
	m.registerStore(store)

	for i, pid := range []common.PageID{1, 2} {
		ident := common.PageIdentity{FileID: 1, PageID: pid}
		m.descTable[i].set(ident)
		m.descTable[i].pinCount = 0
		m.dir.insert(ident, uint64(i)) //nolint:gosec
	}

	// both referenced: pass one clears the bits, pass two evicts frame 0
	frameID, err := m.allocateFrame()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), frameID)
	assert.False(t, m.descTable[1].refBit)
	assert.False(t, m.descTable[0].valid)
}

func TestAllocateFrame_SkipsPinnedFrames(t *testing.T) {
	store := NewMockPageStore(1)
	m := New(2, nil)
	m.registerStore(store)

	pinnedIdent := common.PageIdentity{FileID: 1, PageID: 1}
	m.descTable[0].set(pinnedIdent)
	m.dir.insert(pinnedIdent, 0)

	freeIdent := common.PageIdentity{FileID: 1, PageID: 2}
	m.descTable[1].set(freeIdent)
	m.descTable[1].pinCount = 0
	m.descTable[1].refBit = false
	m.dir.insert(freeIdent, 1)

	frameID, err := m.allocateFrame()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), frameID)
	assert.True(t, m.descTable[0].valid, "the pinned frame must survive the sweep")
}

func TestAllocateFrame_AllPinnedExhaustsPool(t *testing.T) {
	m := New(3, nil)

	for i, pid := range []common.PageID{1, 2, 3} {
		ident := common.PageIdentity{FileID: 1, PageID: pid}
		m.descTable[i].set(ident)
		m.dir.insert(ident, uint64(i)) //nolint:gosec
	}

	_, err := m.allocateFrame()
	require.ErrorIs(t, err, ErrPoolExhausted)

	for i := range m.descTable {
		assert.True(t, m.descTable[i].valid)
		assert.Equal(t, uint64(1), m.descTable[i].pinCount)
		assert.False(t, m.descTable[i].refBit, "the sweep should have degraded the refBit")
	}
	assert.Equal(t, 3, m.dir.size())
}
