package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/papaveez/metropolis-gen/config"
)

// OutputManager writes generation results to an output directory as CSV
// plus a config snapshot. A nil OutputManager is a no-op, so callers can
// wire it unconditionally.
type OutputManager struct {
	dir string
}

// NewOutputManager creates the output directory. Returns nil if dir is
// empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{dir: dir}, nil
}

// WriteConfig saves the active configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStreamlines writes per-streamline records to streamlines.csv.
func (om *OutputManager) WriteStreamlines(records []StreamlineRecord) error {
	if om == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "streamlines.csv"))
	if err != nil {
		return fmt.Errorf("creating streamlines.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing streamlines: %w", err)
	}
	return nil
}

// WriteSummary writes per-class summary rows to summary.csv.
func (om *OutputManager) WriteSummary(stats NetworkStats) error {
	if om == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(stats.Classes, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
