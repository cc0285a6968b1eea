package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
)

const registryFilename = "REGISTRY"

var ErrFileNotFound = errors.New("file is not registered")

// Data is the persisted registry document: which file names exist and which
// FileID each of them was assigned. The instance id tells snapshots of two
// databases apart.
type Data struct {
	InstanceID uuid.UUID                `json:"instance_id"`
	NextFileID common.FileID            `json:"next_file_id"`
	Files      map[string]common.FileID `json:"files"`
}

// Manager assigns stable FileIDs to page-file names and hands out the
// corresponding disk files. The mapping survives restarts; nothing else
// about the buffer pool does.
type Manager struct {
	mu       sync.Mutex
	fs       afero.Fs
	basePath string
	data     Data
	disk     *disk.Manager
}

func Open(fs afero.Fs, basePath string) (*Manager, error) {
	if err := fs.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path %s: %w", basePath, err)
	}

	m := &Manager{
		fs:       fs,
		basePath: basePath,
		disk:     disk.NewManager(fs),
	}

	registryPath := filepath.Join(basePath, registryFilename)
	raw, err := afero.ReadFile(fs, registryPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &m.data); err != nil {
			return nil, fmt.Errorf("failed to decode registry %s: %w", registryPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		m.data = Data{
			InstanceID: uuid.New(),
			NextFileID: 0,
			Files:      map[string]common.FileID{},
		}
		if err := m.persistLocked(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to read registry %s: %w", registryPath, err)
	}

	return m, nil
}

func (m *Manager) InstanceID() uuid.UUID {
	return m.data.InstanceID
}

// Open returns the page file registered under name, creating and persisting
// a fresh FileID binding when the name is new.
func (m *Manager) Open(name string) (*disk.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.data.Files[name]
	if !ok {
		id = m.data.NextFileID
		m.data.NextFileID++
		m.data.Files[name] = id

		if err := m.persistLocked(); err != nil {
			delete(m.data.Files, name)
			m.data.NextFileID = id

			return nil, err
		}
	}

	return m.disk.Open(filepath.Join(m.basePath, name), id)
}

// Lookup resolves an already registered name without creating it.
func (m *Manager) Lookup(name string) (*disk.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.data.Files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	return m.disk.Open(filepath.Join(m.basePath, name), id)
}

// Names lists the registered file names.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.data.Files))
	for name := range m.data.Files {
		names = append(names, name)
	}

	return names
}

func (m *Manager) persistLocked() error {
	raw, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	registryPath := filepath.Join(m.basePath, registryFilename)
	if err := afero.WriteFile(m.fs, registryPath, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write registry %s: %w", registryPath, err)
	}

	return nil
}
