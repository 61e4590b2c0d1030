package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/model"
)

// source is what the command line named: a preset, a YAML configuration or
// a model file.
type source struct {
	name string
	cfg  *config.Config
	// file is set for model files. Its bodies are restored as saved rather
	// than rebuilt from cfg, which holds them in rounded form.
	file *model.File
}

// populate builds a fresh System with the (corrected) settings of cfg.
func (s *source) populate() (*gravity.System, error) {
	if s.file == nil {
		return s.cfg.Populate()
	}
	f := *s.file
	f.Settings = model.SettingsFromConfig(s.cfg)
	return f.Restore(s.cfg.Params()), nil
}

// loadSource resolves the source named on the command line. With no
// argument the "binary" preset is used. The name labels the run.
func loadSource(arg string, logger *log.Logger) (*source, error) {
	if arg == "" {
		arg = "binary"
	}

	src := &source{name: arg}
	var err error
	switch ext := strings.ToLower(filepath.Ext(arg)); ext {
	case ".yaml", ".yml":
		src.cfg, err = config.Load(arg)
		src.name = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	case ".json":
		if src.file, err = model.Load(arg); err == nil {
			src.cfg = src.file.Config()
		}
		src.name = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	default:
		if src.cfg = config.GetPreset(arg); src.cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", arg, config.ListPresets())
		}
	}
	if err != nil {
		return nil, err
	}

	for _, c := range src.cfg.Validate() {
		logger.Warn("setting corrected", "field", c.Field, "was", c.Was, "now", c.Now)
	}
	return src, nil
}
