package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns the default output directory for a run
func (p *DefaultPathManager) GetDefaultOutputDir(strategyName, interval string) string {
	s := strings.TrimSpace(strategyName)
	i := strings.ToLower(strings.TrimSpace(interval))
	if s == "" {
		s = "strategy"
	}
	if i == "" {
		i = "unknown"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", s, i))
}

// EnsureDirectoryExists creates the parent directory if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputDir is a package-level convenience function
func DefaultOutputDir(strategyName, interval string) string {
	manager := NewDefaultPathManager()
	return manager.GetDefaultOutputDir(strategyName, interval)
}
