package fsartifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

const (
	ModuleExt = ".wasm"
	LoaderExt = ".js"
)

// Locator scans a compiler output directory, non-recursively, for exactly one
// binary module and exactly one generated loader.
type Locator struct{}

func NewLocator() *Locator {
	return &Locator{}
}

var _ ports.ArtifactLocator = (*Locator)(nil)

func (l *Locator) Locate(dir string) (domain.ArtifactSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.ArtifactSet{}, &domain.OpError{
			Op:   "fsartifacts.locate",
			Kind: domain.KindIO,
			Path: dir,
			Err:  err,
		}
	}

	var modules, loaders []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ModuleExt:
			modules = append(modules, e.Name())
		case LoaderExt:
			loaders = append(loaders, e.Name())
		}
	}

	module, err := exactlyOne(dir, "binary module", ModuleExt, modules)
	if err != nil {
		return domain.ArtifactSet{}, err
	}
	loader, err := exactlyOne(dir, "loader", LoaderExt, loaders)
	if err != nil {
		return domain.ArtifactSet{}, err
	}

	return domain.ArtifactSet{
		Dir:        dir,
		ModulePath: filepath.Join(dir, module),
		LoaderPath: filepath.Join(dir, loader),
	}, nil
}

func exactlyOne(dir, what, ext string, names []string) (string, error) {
	switch len(names) {
	case 1:
		return names[0], nil
	case 0:
		return "", &domain.OpError{
			Op:   "fsartifacts.locate",
			Kind: domain.KindDiscovery,
			Path: dir,
			Err:  fmt.Errorf("%w: no %s (*%s) found", domain.ErrMissingArtifact, what, ext),
		}
	default:
		return "", &domain.OpError{
			Op:   "fsartifacts.locate",
			Kind: domain.KindDiscovery,
			Path: dir,
			Err: fmt.Errorf("%w: %d %s files (*%s) found: %s; clean the output directory and rebuild",
				domain.ErrAmbiguousArtifact, len(names), what, ext, strings.Join(names, ", ")),
		}
	}
}
