package bufferpool

import "github.com/Blackdeer1524/FrameDB/src/pkg/common"

// FrameStatus is a point-in-time readout of one descriptor.
type FrameStatus struct {
	FrameID  uint64              `json:"frame_id"`
	Owner    common.PageIdentity `json:"owner"`
	Valid    bool                `json:"valid"`
	Dirty    bool                `json:"dirty"`
	RefBit   bool                `json:"ref_bit"`
	PinCount uint64              `json:"pin_count"`
}

type Diagnostics struct {
	Frames      []FrameStatus `json:"frames"`
	ValidFrames int           `json:"valid_frames"`
}

// Diagnostics snapshots every descriptor without mutating anything.
func (m *Manager) Diagnostics() Diagnostics {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := Diagnostics{Frames: make([]FrameStatus, 0, m.poolSize)}
	for frameID := range m.descTable {
		desc := &m.descTable[frameID]
		d.Frames = append(d.Frames, FrameStatus{
			FrameID:  uint64(frameID), //nolint:gosec
			Owner:    desc.owner,
			Valid:    desc.valid,
			Dirty:    desc.dirty,
			RefBit:   desc.refBit,
			PinCount: desc.pinCount,
		})
		if desc.valid {
			d.ValidFrames++
		}
	}

	return d
}

func (m *Manager) PrintDiagnostics() {
	d := m.Diagnostics()
	for _, f := range d.Frames {
		m.log.Infof(
			"frame %d: owner=%+v valid=%t dirty=%t refBit=%t pinCount=%d",
			f.FrameID,
			f.Owner,
			f.Valid,
			f.Dirty,
			f.RefBit,
			f.PinCount,
		)
	}
	m.log.Infof("total number of valid frames: %d", d.ValidFrames)
}
