package bufferpool

import "errors"

var (
	// ErrPoolExhausted is returned when every frame is pinned and the clock
	// sweep cannot produce a victim. Callers have to release pins and retry.
	ErrPoolExhausted = errors.New("no evictable frame in the buffer pool")

	// ErrPageNotPinned reports an unpin of a page whose pin count is already
	// zero, i.e. a double-unpin in the caller.
	ErrPageNotPinned = errors.New("page is not pinned")

	// ErrPagePinned is returned when a flush or dispose reaches a frame that
	// some caller still holds.
	ErrPagePinned = errors.New("page is still pinned")

	// ErrBadBuffer reports a descriptor whose owner and valid flags disagree.
	// It is never masked: if it ever fires, the bookkeeping is corrupted.
	ErrBadBuffer = errors.New("corrupted frame descriptor")
)
