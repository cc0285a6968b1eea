package delivery

import (
	"github.com/Blackdeer1524/FrameDB/src/bufferpool"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
)

// Pool is the slice of the buffer manager the HTTP surface needs.
type Pool interface {
	FlushFile(store common.PageStore) error
	Diagnostics() bufferpool.Diagnostics
}

// Files resolves registered page-file names.
type Files interface {
	Lookup(name string) (*disk.File, error)
	Names() []string
}
