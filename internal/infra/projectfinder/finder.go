package projectfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// DefaultConfigFiles are tried in order in each directory.
var DefaultConfigFiles = []string{"screeps.toml", "screeps.yaml", "screeps.yml"}

// Finder locates a project's configuration document by searching upward.
type Finder struct {
	ConfigFiles []string
}

func NewFinder() *Finder {
	return &Finder{ConfigFiles: DefaultConfigFiles}
}

var _ ports.ProjectLocator = (*Finder)(nil)

func (f *Finder) FindConfig(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "projectfinder.find",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "projectfinder.find",
			Kind: domain.KindIO,
			Err:  err,
		}
	}

	// A file path means its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		for _, name := range f.ConfigFiles {
			p := filepath.Join(cur, name)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, nil
			}
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "projectfinder.find",
				Kind: domain.KindNotFound,
				Path: abs,
				Err: fmt.Errorf("no %s in this directory or any parent (run `screepsdeploy init`): %w",
					strings.Join(f.ConfigFiles, ", "), domain.ErrNotFound),
			}
		}
		cur = parent
	}
}

// Root is the project root governed by a configuration document.
func Root(configPath string) string {
	return filepath.Dir(configPath)
}
