package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/san-kum/gravity/internal/gravity"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
	Events []string      `json:"events"`
	Trails []BodyTrail   `json:"trails,omitempty"`
}

type ExportFrame struct {
	Step   int                    `json:"step"`
	Time   float64                `json:"time"`
	Bodies []gravity.BodySnapshot `json:"bodies"`
}

// Collect gathers everything stored for a run into one document.
func (s *Store) Collect(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadTrajectory(runID)
	if err != nil {
		return nil, err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return nil, err
	}

	trails, err := s.LoadTrails(runID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	frames := GroupFrames(samples)
	data := &ExportData{
		Run:    *meta,
		Frames: make([]ExportFrame, len(frames)),
		Events: events,
		Trails: trails,
	}
	for i, fr := range frames {
		data.Frames[i] = ExportFrame{Step: fr.Step, Time: fr.Time, Bodies: fr.Bodies}
	}
	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, data)
}
