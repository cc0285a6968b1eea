package bufferpool

import (
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

// MockPageStore is a testify mock of the store collaborator, used by the
// package tests to pin down exactly which I/O an operation performs.
type MockPageStore struct {
	mock.Mock

	id common.FileID
}

var _ common.PageStore = (*MockPageStore)(nil)

func NewMockPageStore(id common.FileID) *MockPageStore {
	return &MockPageStore{id: id}
}

func (m *MockPageStore) ID() common.FileID {
	return m.id
}

func (m *MockPageStore) Filename() string {
	return fmt.Sprintf("mock-%d.db", m.id)
}

func (m *MockPageStore) ReadPage(pageID common.PageID, buf []byte) error {
	args := m.Called(pageID, buf)

	return args.Error(0)
}

func (m *MockPageStore) WritePage(buf []byte) error {
	args := m.Called(buf)

	return args.Error(0)
}

func (m *MockPageStore) AllocatePage() (common.PageID, error) {
	args := m.Called()

	return args.Get(0).(common.PageID), args.Error(1)
}

func (m *MockPageStore) DeletePage(pageID common.PageID) error {
	args := m.Called(pageID)

	return args.Error(0)
}

func (m *MockPageStore) Exists(pageID common.PageID) (bool, error) {
	args := m.Called(pageID)

	return args.Bool(0), args.Error(1)
}
