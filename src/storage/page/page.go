package page

import (
	"encoding/binary"

	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

const (
	// Size is the fixed page size. Every frame of the buffer pool and every
	// on-disk page slot is exactly this large.
	Size = 4096

	headerSize = 8
)

// Page is a fixed-size view over one page image. The first headerSize bytes
// carry the page's own identity; the payload past the header is opaque to
// the storage layer and to the buffer pool.
type Page struct {
	data []byte
}

// Wrap builds a Page over an existing buffer without copying. The buffer
// pool uses it to slice frames out of one contiguous arena.
func Wrap(buf []byte) Page {
	assert.Assert(len(buf) == Size, "page buffer must be %d bytes, got %d", Size, len(buf))

	return Page{data: buf}
}

func New() *Page {
	p := Wrap(make([]byte, Size))
	p.SetPageID(common.InvalidPageID)

	return &p
}

func (p Page) Data() []byte {
	return p.data
}

func (p Page) SetData(d []byte) {
	assert.Assert(len(d) == Size, "page data must be %d bytes, got %d", Size, len(d))

	copy(p.data, d)
}

// Payload is the caller-visible part of the page.
func (p Page) Payload() []byte {
	return p.data[headerSize:]
}

func (p Page) PageID() common.PageID {
	return common.PageID(binary.BigEndian.Uint64(p.data[:headerSize]))
}

func (p Page) SetPageID(id common.PageID) {
	binary.BigEndian.PutUint64(p.data[:headerSize], uint64(id))
}

// Zero clears the payload and stamps the invalid identity.
func (p Page) Zero() {
	clear(p.data)
	p.SetPageID(common.InvalidPageID)
}
