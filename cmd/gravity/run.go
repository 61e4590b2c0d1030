package main

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravity/internal/metrics"
	"github.com/san-kum/gravity/internal/model"
	"github.com/san-kum/gravity/internal/sim"
	"github.com/san-kum/gravity/internal/storage"
)

type storedRun struct {
	id     string
	result *sim.Result
}

// runMembers runs n copies of src with consecutive seeds starting at
// src.cfg.Run.Seed and stores every result, including those cut short by
// ctx. The returned error is the first one any member hit.
func runMembers(ctx context.Context, src *source, st *storage.Store, n int, spread float64, logger *log.Logger) ([]storedRun, error) {
	cfg := src.cfg
	members := make([]*sim.Simulator, n)

	factory := func(s int64) (*sim.Simulator, error) {
		sys, err := src.populate()
		if err != nil {
			return nil, err
		}
		sys.SetLogger(logger.With("seed", s))

		var clock sim.FrameClock
		if cfg.Sim.Randomize {
			clock = sim.NewJitterClock(sys.Params().CalcInterval(), spread, s)
		}
		simulator := sim.New(sys, clock)
		simulator.SetLogger(logger)
		for _, m := range metrics.Standard() {
			simulator.AddMetric(m)
		}
		members[s-cfg.Run.Seed] = simulator
		return simulator, nil
	}

	results, runErr := sim.NewEnsemble(factory, n, cfg.Run.Seed).Run(ctx, cfg.Run)

	runs := make([]storedRun, 0, n)
	for i, result := range results {
		if result == nil {
			continue
		}
		sys := members[i].System()
		id, err := st.Save(src.name, cfg.Run.Seed+int64(i), model.FromSystem(sys, cfg.Obj.Polar), result)
		if err != nil {
			return runs, err
		}
		if err := st.SaveTrails(id, sys.Bodies()); err != nil {
			return runs, err
		}
		runs = append(runs, storedRun{id: id, result: result})
	}
	return runs, runErr
}

var traceHeader = []string{"step", "time", "dt", "id", "x", "y", "vx", "vy"}

// traceFrames steps src without storing anything and streams every frame to
// w as CSV, one row per active body.
func traceFrames(ctx context.Context, src *source, w io.Writer, spread float64) error {
	sys, err := src.populate()
	if err != nil {
		return err
	}
	var clock sim.FrameClock
	if src.cfg.Sim.Randomize {
		clock = sim.NewJitterClock(sys.Params().CalcInterval(), spread, src.cfg.Run.Seed)
	}
	simulator := sim.New(sys, clock)

	out := csv.NewWriter(w)
	if err := out.Write(traceHeader); err != nil {
		return err
	}
	var writeErr error
	f := strconv.FormatFloat
	err = simulator.RunWithCallback(ctx, src.cfg.Run, func(fr sim.Frame) bool {
		step := strconv.Itoa(fr.Step)
		for _, b := range fr.Bodies {
			row := []string{step, f(fr.Time, 'g', -1, 64), f(fr.Dt, 'g', -1, 64), b.ID,
				f(b.X, 'g', -1, 64), f(b.Y, 'g', -1, 64), f(b.VX, 'g', -1, 64), f(b.VY, 'g', -1, 64)}
			if writeErr = out.Write(row); writeErr != nil {
				return false
			}
		}
		return true
	})
	out.Flush()
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	return out.Error()
}
