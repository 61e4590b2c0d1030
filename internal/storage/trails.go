package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/gravity/internal/gravity"
	"gonum.org/v1/gonum/spatial/r2"
)

const trailsFile = "trails.csv"

var trailsHeader = []string{"slot", "id", "x", "y"}

// BodyTrail is the recorded position history of one body, oldest first.
type BodyTrail struct {
	Slot   int      `json:"slot"`
	ID     string   `json:"id"`
	Points []r2.Vec `json:"points"`
}

// SaveTrails writes the trail of every body, retired ones included, to the
// run directory.
func (s *Store) SaveTrails(runID string, bodies []*gravity.Body) error {
	f, err := os.Create(filepath.Join(s.baseDir, runID, trailsFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trailsHeader); err != nil {
		return err
	}
	for _, b := range bodies {
		slot := strconv.Itoa(b.Slot())
		for _, p := range b.Trail().Points() {
			if err := w.Write([]string{slot, b.ID(), formatFloat(p.X), formatFloat(p.Y)}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) LoadTrails(runID string) ([]BodyTrail, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trailsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(trailsHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	trails := make([]BodyTrail, 0)
	for i, record := range records[min(1, len(records)):] {
		slot, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("run %s trails line %d: %w", runID, i+2, err)
		}
		x, errX := strconv.ParseFloat(record[2], 64)
		y, errY := strconv.ParseFloat(record[3], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("run %s trails line %d: bad point %v", runID, i+2, record[2:])
		}
		if n := len(trails); n == 0 || trails[n-1].Slot != slot {
			trails = append(trails, BodyTrail{Slot: slot, ID: record[1]})
		}
		t := &trails[len(trails)-1]
		t.Points = append(t.Points, r2.Vec{X: x, Y: y})
	}
	return trails, nil
}
