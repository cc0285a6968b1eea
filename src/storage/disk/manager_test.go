package disk

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

func newTestFile(t *testing.T) *File {
	t.Helper()

	f, err := OpenFile(afero.NewMemMapFs(), "test.db", 1)
	require.NoError(t, err)

	return f
}

func TestFile_WriteThenReadRoundTrip(t *testing.T) {
	f := newTestFile(t)

	pageID, err := f.AllocatePage()
	require.NoError(t, err)

	out := page.New()
	out.SetPageID(pageID)
	copy(out.Payload(), "hello pages")
	require.NoError(t, f.WritePage(out.Data()))

	in := page.New()
	require.NoError(t, f.ReadPage(pageID, in.Data()))

	assert.Equal(t, pageID, in.PageID())
	assert.Equal(t, out.Data(), in.Data())
}

func TestFile_ReadBeyondEOF(t *testing.T) {
	f := newTestFile(t)

	buf := page.New()
	err := f.ReadPage(99, buf.Data())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSuchPage)
}

func TestFile_WriteRejectsUnstampedPage(t *testing.T) {
	f := newTestFile(t)

	blank := page.New()
	err := f.WritePage(blank.Data())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSuchPage)
}

func TestFile_AllocateAssignsSequentialIDs(t *testing.T) {
	f := newTestFile(t)

	for want := common.PageID(0); want < 5; want++ {
		got, err := f.AllocatePage()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFile_AllocatedPageIsReadableAndZeroed(t *testing.T) {
	f := newTestFile(t)

	pageID, err := f.AllocatePage()
	require.NoError(t, err)

	in := page.New()
	require.NoError(t, f.ReadPage(pageID, in.Data()))

	assert.Equal(t, pageID, in.PageID())
	for _, b := range in.Payload() {
		require.Zero(t, b)
	}
}

func TestFile_DeleteTombstonesSlot(t *testing.T) {
	f := newTestFile(t)

	pageID, err := f.AllocatePage()
	require.NoError(t, err)

	ok, err := f.Exists(pageID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.DeletePage(pageID))

	ok, err = f.Exists(pageID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_DeleteUnallocatedPageFails(t *testing.T) {
	f := newTestFile(t)

	err := f.DeletePage(7)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSuchPage)
}

func TestFile_DeletedSlotIsNotReclaimed(t *testing.T) {
	f := newTestFile(t)

	first, err := f.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, f.DeletePage(first))

	second, err := f.AllocatePage()
	require.NoError(t, err)

	// allocation appends past the tombstone
	assert.Equal(t, first+1, second)
}

func TestFile_ExistsBeyondEOF(t *testing.T) {
	f := newTestFile(t)

	ok, err := f.Exists(123)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_SameIDSamePathYieldsSameFile(t *testing.T) {
	m := NewManager(afero.NewMemMapFs())

	first, err := m.Open("a.db", 1)
	require.NoError(t, err)

	second, err := m.Open("a.db", 1)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestManager_SameIDDifferentPathFails(t *testing.T) {
	m := NewManager(afero.NewMemMapFs())

	_, err := m.Open("a.db", 1)
	require.NoError(t, err)

	_, err = m.Open("b.db", 1)
	assert.Error(t, err)
}

func TestManager_Get(t *testing.T) {
	m := NewManager(afero.NewMemMapFs())

	opened, err := m.Open("a.db", 3)
	require.NoError(t, err)

	got, ok := m.Get(3)
	require.True(t, ok)
	assert.Same(t, opened, got)

	_, ok = m.Get(4)
	assert.False(t, ok)
}
