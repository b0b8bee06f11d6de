// Package runlog records pipeline stage runs in a JSON manifest on disk.
package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/recipe-eda/internal/utils"
)

// Run describes one completed stage execution.
type Run struct {
	ID         string         `json:"id"`
	Stage      string         `json:"stage"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Inputs     []string       `json:"inputs"`
	Output     string         `json:"output"`
	RowsIn     int            `json:"rows_in"`
	RowsOut    int            `json:"rows_out"`
	Counters   map[string]int `json:"counters,omitempty"`
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Start returns a Run with a fresh id and the current start time.
func Start(stage string, inputs ...string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Stage:     stage,
		StartedAt: time.Now().UTC(),
		Inputs:    inputs,
		Counters:  map[string]int{},
	}
}

// Finish stamps the finish time and row counts.
func (r *Run) Finish(output string, rowsIn, rowsOut int) {
	r.FinishedAt = time.Now().UTC()
	r.Output = output
	r.RowsIn = rowsIn
	r.RowsOut = rowsOut
}

// Manifest is the list of recorded runs persisted at path.
type Manifest struct {
	Runs []Run `json:"runs"`

	path string
}

// Load reads the manifest at path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	m := &Manifest{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Save writes the manifest using an atomic write.
func (m *Manifest) Save() error {
	if m.path == "" {
		return errors.New("manifest path not set")
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(m.path, data)
}

// Append loads the manifest at path, adds r and saves it.
func Append(path string, r *Run) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	m.Runs = append(m.Runs, *r)
	return m.Save()
}

// Filter returns runs of the given stage (all when stage is empty), most
// recent first.
func (m *Manifest) Filter(stage string) []Run {
	var out []Run
	for _, r := range m.Runs {
		if stage == "" || r.Stage == stage {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// Latest returns the most recent run of stage.
func (m *Manifest) Latest(stage string) (Run, bool) {
	runs := m.Filter(stage)
	if len(runs) == 0 {
		return Run{}, false
	}
	return runs[0], true
}
