package common

import "math"

type (
	FileID uint64
	PageID uint64
)

const (
	// InvalidFileID marks a descriptor that owns no file.
	InvalidFileID = FileID(math.MaxUint64)
	// InvalidPageID is the reserved "no such page" sentinel. Valid page
	// numbers are always smaller.
	InvalidPageID = PageID(math.MaxUint64)
)

// PageIdentity locates a page globally. PageIDs are unique only within a
// single file, so the file id has to be part of every directory key.
type PageIdentity struct {
	FileID FileID
	PageID PageID
}

func NilPageIdentity() PageIdentity {
	return PageIdentity{
		FileID: InvalidFileID,
		PageID: InvalidPageID,
	}
}
