package bufferpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Blackdeer1524/FrameDB/src"
	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/pkg/dbg"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

const noFrame = ^uint64(0)

// BufferManager is the contract access methods program against.
type BufferManager interface {
	FetchPage(store common.PageStore, pageID common.PageID) (*page.Page, error)
	UnpinPage(store common.PageStore, pageID common.PageID, markDirty bool) error
	AllocatePage(store common.PageStore) (common.PageID, *page.Page, error)
	DisposePage(store common.PageStore, pageID common.PageID) error
	FlushFile(store common.PageStore) error
	Diagnostics() Diagnostics
	Close() error
}

// Manager mediates every page access through a fixed pool of frames. One
// latch guards the directory, the descriptor table and the clock cursor;
// store I/O runs with the affected frame claimed, so the sweep can never
// reclaim a slot mid-load.
type Manager struct {
	poolSize uint64

	mu        sync.Locker
	frames    []page.Page
	descTable []frameDescriptor
	dir       pageDirectory
	cursor    clockCursor
	stores    map[common.FileID]common.PageStore

	log src.Logger
}

var _ BufferManager = (*Manager)(nil)

func New(poolSize uint64, log src.Logger) *Manager {
	return newManager(poolSize, log, &sync.Mutex{})
}

// NewTraced builds a pool whose latch logs every transition with the owning
// goroutine id. Debugging aid, not for production.
func NewTraced(poolSize uint64, log src.Logger) *Manager {
	return newManager(poolSize, log, dbg.NewLoggedMutex("bufferpool"))
}

func newManager(poolSize uint64, log src.Logger, mu sync.Locker) *Manager {
	assert.Assert(poolSize > 0, "pool size must be greater than zero")

	if log == nil {
		log = src.NoopLogger()
	}

	// frames are slices of one contiguous arena; frame identity is the index
	arena := make([]byte, poolSize*page.Size)
	frames := make([]page.Page, poolSize)
	descTable := make([]frameDescriptor, poolSize)
	for i := range frames {
		frames[i] = page.Wrap(arena[uint64(i)*page.Size : uint64(i+1)*page.Size])
		descTable[i].reset()
	}

	return &Manager{
		poolSize:  poolSize,
		mu:        mu,
		frames:    frames,
		descTable: descTable,
		dir:       newPageDirectory(),
		cursor:    newClockCursor(poolSize),
		stores:    map[common.FileID]common.PageStore{},
		log:       log,
	}
}

// registerStore remembers which PageStore serves a file id, so eviction and
// teardown can write a victim back without the original caller around.
func (m *Manager) registerStore(store common.PageStore) {
	if existing, ok := m.stores[store.ID()]; ok {
		assert.Assert(existing == store, "two page stores share file id %d", store.ID())

		return
	}

	m.stores[store.ID()] = store
}

func (m *Manager) storeFor(fileID common.FileID) common.PageStore {
	store, ok := m.stores[fileID]
	assert.Assert(ok, "no registered page store for file %d", fileID)

	return store
}

// FetchPage returns the requested page, loading it from the store on a miss.
// The returned reference is pinned; the caller must hand it back through
// UnpinPage. A resident fetch performs no store I/O at all.
func (m *Manager) FetchPage(
	store common.PageStore,
	pageID common.PageID,
) (*page.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registerStore(store)
	ident := common.PageIdentity{FileID: store.ID(), PageID: pageID}

	if frameID, ok := m.dir.lookup(ident); ok {
		desc := &m.descTable[frameID]
		desc.refBit = true
		desc.pinCount++

		return &m.frames[frameID], nil
	}

	frameID, err := m.allocateFrame()
	if err != nil {
		return nil, err
	}

	frame := &m.frames[frameID]
	if err := store.ReadPage(pageID, frame.Data()); err != nil {
		return nil, fmt.Errorf("failed to read page %+v: %w", ident, err)
	}

	m.descTable[frameID].set(ident)
	m.dir.insert(ident, frameID)

	return frame, nil
}

// UnpinPage releases one pin. A miss is a silent no-op: the page was never
// resident or has already been evicted, either way there is nothing to undo.
// The dirty bit is sticky; unpinning clean never clears it.
func (m *Manager) UnpinPage(
	store common.PageStore,
	pageID common.PageID,
	markDirty bool,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ident := common.PageIdentity{FileID: store.ID(), PageID: pageID}

	frameID, ok := m.dir.lookup(ident)
	if !ok {
		return nil
	}

	desc := &m.descTable[frameID]
	if markDirty {
		desc.dirty = true
	}

	if desc.pinCount == 0 {
		return fmt.Errorf("%w: page %+v, frame %d", ErrPageNotPinned, ident, frameID)
	}
	desc.pinCount--

	return nil
}

// AllocatePage grows the file by one page and loads it straight into a
// frame, pinned for the caller.
func (m *Manager) AllocatePage(
	store common.PageStore,
) (common.PageID, *page.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registerStore(store)

	pageID, err := store.AllocatePage()
	if err != nil {
		return common.InvalidPageID, nil, fmt.Errorf(
			"failed to allocate page in %s: %w",
			store.Filename(),
			err,
		)
	}

	frameID, err := m.allocateFrame()
	if err != nil {
		// the freshly allocated page would leak on disk otherwise
		if delErr := store.DeletePage(pageID); delErr != nil {
			m.log.Errorf(
				"failed to release page %d of %s after a failed frame reservation: %v",
				pageID,
				store.Filename(),
				delErr,
			)
		}

		return common.InvalidPageID, nil, err
	}

	ident := common.PageIdentity{FileID: store.ID(), PageID: pageID}
	frame := &m.frames[frameID]
	frame.Zero()
	frame.SetPageID(pageID)

	m.descTable[frameID].set(ident)
	m.dir.insert(ident, frameID)

	return pageID, frame, nil
}

// DisposePage drops the page from the pool and deletes it in the store.
// Disposing a never-resident page is legal and only deletes from the store.
// A pinned page aborts the call before anything is touched.
func (m *Manager) DisposePage(store common.PageStore, pageID common.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ident := common.PageIdentity{FileID: store.ID(), PageID: pageID}

	if frameID, ok := m.dir.lookup(ident); ok {
		desc := &m.descTable[frameID]
		if desc.pinCount > 0 {
			return fmt.Errorf(
				"%w: cannot dispose page %d of %s, frame %d",
				ErrPagePinned,
				pageID,
				store.Filename(),
				frameID,
			)
		}

		m.dir.remove(ident)
		desc.reset()
	}

	if err := store.DeletePage(pageID); err != nil {
		return fmt.Errorf(
			"failed to delete page %d of %s: %w",
			pageID,
			store.Filename(),
			err,
		)
	}

	return nil
}

// FlushFile writes back and drops every resident page of the given file.
// It aborts on the first pinned or corrupted frame; frames processed earlier
// in the same call stay flushed, there is no rollback.
func (m *Manager) FlushFile(store common.PageStore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fileID := store.ID()
	for frameID := range m.descTable {
		desc := &m.descTable[frameID]
		if desc.owner.FileID != fileID {
			continue
		}

		if !desc.valid {
			return fmt.Errorf(
				"%w: frame %d has a stale owner %+v",
				ErrBadBuffer,
				frameID,
				desc.owner,
			)
		}

		if desc.pinCount > 0 {
			return fmt.Errorf(
				"%w: page %+v is pinned in frame %d",
				ErrPagePinned,
				desc.owner,
				frameID,
			)
		}

		if desc.dirty {
			if err := store.WritePage(m.frames[frameID].Data()); err != nil {
				return fmt.Errorf("failed to write back page %+v: %w", desc.owner, err)
			}
			desc.dirty = false
		}

		m.dir.remove(desc.owner)
		desc.reset()
	}

	return nil
}

// Close writes every dirty frame back to its owning store and discards the
// directory. Cached contents do not survive a restart; write-back failures
// are joined and reported, never swallowed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for frameID := range m.descTable {
		desc := &m.descTable[frameID]
		if !desc.valid {
			continue
		}

		if desc.pinCount > 0 {
			m.log.Warnf(
				"closing the pool while page %+v is still pinned %d time(s)",
				desc.owner,
				desc.pinCount,
			)
		}

		if desc.dirty {
			store := m.storeFor(desc.owner.FileID)
			if err := store.WritePage(m.frames[frameID].Data()); err != nil {
				errs = errors.Join(errs, fmt.Errorf(
					"failed to write back page %+v: %w",
					desc.owner,
					err,
				))

				continue
			}
		}

		m.dir.remove(desc.owner)
		desc.reset()
	}

	return errs
}
