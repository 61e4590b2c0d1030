package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravity/internal/model"
	"github.com/san-kum/gravity/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	eventsFile     = "events.log"
	finalFile      = "final.json"
)

var trajectoryHeader = []string{"step", "time", "id", "x", "y", "vx", "vy", "mass"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	G         float64            `json:"G"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	SimTime   float64            `json:"sim_time"`
	Active    int                `json:"active"`
	Collided  int                `json:"collided"`
	Escaped   int                `json:"escaped"`
	Events    int                `json:"events"`
	Stopped   string             `json:"stopped,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the recorded frames,
// the event log and the final state as a model file.
func (s *Store) Save(preset string, seed int64, final *model.File, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.mkRunDir(preset, now)
	if err != nil {
		return "", err
	}

	last := result.Final()
	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Seed:      seed,
		G:         final.Settings.G,
		Dt:        final.Settings.Dt,
		Steps:     result.StepsTaken,
		SimTime:   result.SimTime,
		Active:    last.Active,
		Collided:  last.Collided,
		Escaped:   last.Escaped,
		Events:    len(result.Events),
		Metrics:   result.Metrics,
	}
	if result.Stopped != nil {
		meta.Stopped = result.Stopped.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Frames); err != nil {
		return "", err
	}
	if err := writeEvents(filepath.Join(runDir, eventsFile), result); err != nil {
		return "", err
	}
	if err := model.Save(filepath.Join(runDir, finalFile), final); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) mkRunDir(preset string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", preset, now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeTrajectory(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		step := strconv.Itoa(fr.Step)
		t := formatFloat(fr.Time)
		for _, b := range fr.Bodies {
			row := []string{step, t, b.ID,
				formatFloat(b.X), formatFloat(b.Y),
				formatFloat(b.VX), formatFloat(b.VY),
				formatFloat(b.Mass),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeEvents(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, e := range result.Events {
		if _, err := fmt.Fprintln(f, e.String()); err != nil {
			return err
		}
	}
	return nil
}

// List returns the metadata of every run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFinal(runID string) (*model.File, error) {
	return model.Load(filepath.Join(s.baseDir, runID, finalFile))
}

// LoadEvents returns the event log of a run, one event per line.
func (s *Store) LoadEvents(runID string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, eventsFile))
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}
