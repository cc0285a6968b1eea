package bufferpool

import (
	"fmt"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

// DebugManager wraps a Manager so tests can verify that every fetched page
// was handed back before teardown.
type DebugManager struct {
	m *Manager
}

var _ BufferManager = (*DebugManager)(nil)

func NewDebugManager(m *Manager) *DebugManager {
	return &DebugManager{m: m}
}

func (d *DebugManager) FetchPage(
	store common.PageStore,
	pageID common.PageID,
) (*page.Page, error) {
	return d.m.FetchPage(store, pageID)
}

func (d *DebugManager) UnpinPage(
	store common.PageStore,
	pageID common.PageID,
	markDirty bool,
) error {
	return d.m.UnpinPage(store, pageID, markDirty)
}

func (d *DebugManager) AllocatePage(
	store common.PageStore,
) (common.PageID, *page.Page, error) {
	return d.m.AllocatePage(store)
}

func (d *DebugManager) DisposePage(store common.PageStore, pageID common.PageID) error {
	return d.m.DisposePage(store, pageID)
}

func (d *DebugManager) FlushFile(store common.PageStore) error {
	return d.m.FlushFile(store)
}

func (d *DebugManager) Diagnostics() Diagnostics {
	return d.m.Diagnostics()
}

func (d *DebugManager) Close() error {
	return d.m.Close()
}

// EnsureAllPagesUnpinned reports every page that is still pinned. Meant to
// run after a workload has wound down.
func (d *DebugManager) EnsureAllPagesUnpinned() error {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()

	pinned := map[common.PageIdentity]uint64{}
	for i := range d.m.descTable {
		desc := &d.m.descTable[i]
		if desc.valid && desc.pinCount > 0 {
			pinned[desc.owner] = desc.pinCount
		}
	}

	if len(pinned) > 0 {
		return fmt.Errorf("not all pages were properly unpinned: %+v", pinned)
	}

	return nil
}
