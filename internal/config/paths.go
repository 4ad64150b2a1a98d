package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the directories the tools read and write. Relative
// configured paths are resolved against the working directory.
type Paths struct {
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// NewPaths resolves the configured directories to absolute paths.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	p := &Paths{}
	var err error
	if p.DataDir, err = filepath.Abs(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if p.ReportsDir, err = filepath.Abs(cfg.ReportsDir); err != nil {
		return nil, fmt.Errorf("resolve reports dir: %w", err)
	}
	if p.LogsDir, err = filepath.Abs(cfg.LogsDir); err != nil {
		return nil, fmt.Errorf("resolve logs dir: %w", err)
	}
	return p, nil
}

// EnsureDirectories creates all managed directories if needed.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns the path of a file in the data directory.
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path of a file in the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path of a file in the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
