package usecase

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// Project is a loaded configuration together with the directory it governs.
type Project struct {
	Root       string
	ConfigPath string
	Config     domain.Configuration
}

// RootName is the default naming stem for the project's build outputs.
func (p Project) RootName() string {
	return filepath.Base(p.Root)
}

type LoadProject struct {
	finder ports.ProjectLocator
	loader ports.ConfigLoader
	logger *slog.Logger
}

func NewLoadProject(finder ports.ProjectLocator, loader ports.ConfigLoader, logger *slog.Logger) *LoadProject {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoadProject{finder: finder, loader: loader, logger: logger}
}

// Execute loads configPath when given, otherwise searches upward from startDir.
// The project root is the directory holding the configuration document.
func (uc *LoadProject) Execute(configPath, startDir string) (Project, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		found, err := uc.finder.FindConfig(startDir)
		if err != nil {
			return Project{}, err
		}
		path = found
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Project{}, &domain.OpError{
			Op:   "project.load",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	cfg, err := uc.loader.Load(abs)
	if err != nil {
		return Project{}, err
	}

	for _, w := range cfg.Warnings {
		uc.logger.Warn("config.warning", "path", abs, "detail", w)
	}
	uc.logger.Debug("config.loaded", "path", abs, "modes", strings.Join(cfg.ModeNames(), ","))

	return Project{
		Root:       filepath.Dir(abs),
		ConfigPath: abs,
		Config:     cfg,
	}, nil
}
