package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/san-kum/itersolve/internal/solver"
)

// Snapshot is the serialized form of an iteration state. The system
// itself is not part of it; a resumed run supplies the system and the
// snapshot separately.
type Snapshot struct {
	X         []float64 `json:"x"`
	R         []float64 `json:"r"`
	P         []float64 `json:"p"`
	AP        []float64 `json:"ap,omitempty"`
	RS        float64   `json:"rs"`
	RSPrev    float64   `json:"rs_prev"`
	Alpha     float64   `json:"alpha"`
	Step      int       `json:"step"`
	Converged bool      `json:"converged"`
	Breakdown bool      `json:"breakdown"`
}

// CheckpointStore persists the latest iteration state as a single JSON
// file, overwritten on every save. It satisfies the pipeline's
// CheckpointStore interface.
type CheckpointStore struct {
	path string
}

// NewCheckpointStore builds a store writing to the given file path.
func NewCheckpointStore(path string) *CheckpointStore {
	return &CheckpointStore{path: path}
}

func (c *CheckpointStore) Path() string { return c.path }

// SaveCheckpoint overwrites the checkpoint file with the given state.
// The write goes through a temp file and a rename so a crash mid-write
// leaves the previous checkpoint intact.
func (c *CheckpointStore) SaveCheckpoint(st *solver.State) error {
	snap := Snapshot{
		X:         st.X,
		R:         st.R,
		P:         st.P,
		AP:        st.AP,
		RS:        st.RS,
		RSPrev:    st.RSPrev,
		Alpha:     st.Alpha,
		Step:      st.Step,
		Converged: st.Converged,
		Breakdown: st.Breakdown,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// LoadCheckpoint reads the checkpoint back as a state, ready to seed a
// resumed cursor.
func (c *CheckpointStore) LoadCheckpoint() (*solver.State, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	return &solver.State{
		X:         snap.X,
		R:         snap.R,
		P:         snap.P,
		AP:        snap.AP,
		RS:        snap.RS,
		RSPrev:    snap.RSPrev,
		Alpha:     snap.Alpha,
		Step:      snap.Step,
		Converged: snap.Converged,
		Breakdown: snap.Breakdown,
	}, nil
}
