package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/sim"
)

// Sample is one row of a trajectory: a body at a recorded step.
type Sample struct {
	Step   int
	Time   float64
	ID     string
	X, Y   float64
	VX, VY float64
	Mass   float64
}

func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		sm, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(record []string) (Sample, error) {
	step, err := strconv.Atoi(record[0])
	if err != nil {
		return Sample{}, err
	}
	var vals [6]float64
	for i, idx := range []int{1, 3, 4, 5, 6, 7} {
		if vals[i], err = strconv.ParseFloat(record[idx], 64); err != nil {
			return Sample{}, err
		}
	}
	return Sample{
		Step: step,
		Time: vals[0],
		ID:   record[2],
		X:    vals[1],
		Y:    vals[2],
		VX:   vals[3],
		VY:   vals[4],
		Mass: vals[5],
	}, nil
}

// GroupFrames rebuilds frames from consecutive samples of the same step.
// Only positions, velocities and masses are restored.
func GroupFrames(samples []Sample) []sim.Frame {
	frames := make([]sim.Frame, 0)
	for _, sm := range samples {
		if n := len(frames); n == 0 || frames[n-1].Step != sm.Step {
			frames = append(frames, sim.Frame{Step: sm.Step, Time: sm.Time})
		}
		fr := &frames[len(frames)-1]
		fr.Bodies = append(fr.Bodies, gravity.BodySnapshot{
			ID:   sm.ID,
			Mass: sm.Mass,
			X:    sm.X,
			Y:    sm.Y,
			VX:   sm.VX,
			VY:   sm.VY,
		})
		fr.Active = len(fr.Bodies)
	}
	return frames
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
