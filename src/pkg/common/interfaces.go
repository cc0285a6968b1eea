package common

// PageStore is the durable-storage collaborator of the buffer pool. One
// instance corresponds to one page file. Pages are fixed-size blocks that
// embed their own PageID, so a write-back needs no out-of-band identity.
// All calls are synchronous; the buffer pool never retries them.
type PageStore interface {
	ID() FileID
	Filename() string

	// ReadPage fills buf with the page's on-disk image.
	ReadPage(pageID PageID, buf []byte) error
	// WritePage persists buf under the page identity embedded in it.
	WritePage(buf []byte) error
	// AllocatePage extends the file by one zero-initialized page and
	// returns its identity.
	AllocatePage() (PageID, error)
	DeletePage(pageID PageID) error
	Exists(pageID PageID) (bool, error)
}
