package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/infra/config"
	"github.com/aalvaropc/screepsdeploy/internal/infra/copysink"
	"github.com/aalvaropc/screepsdeploy/internal/infra/fsartifacts"
	"github.com/aalvaropc/screepsdeploy/internal/infra/logger"
	"github.com/aalvaropc/screepsdeploy/internal/infra/projectfinder"
	"github.com/aalvaropc/screepsdeploy/internal/infra/receiptstore"
	"github.com/aalvaropc/screepsdeploy/internal/infra/uploadsink"
	"github.com/aalvaropc/screepsdeploy/internal/infra/wasmpack"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
	"github.com/aalvaropc/screepsdeploy/internal/usecase"
)

type globalOptions struct {
	configPath string
	verbose    int
	compiler   string
}

// app wires infra adapters into use cases for one command invocation.
type app struct {
	opts   *globalOptions
	errOut io.Writer
	logger *slog.Logger
}

func newApp(opts *globalOptions, errOut io.Writer) *app {
	return &app{opts: opts, errOut: errOut, logger: logger.L()}
}

func (a *app) loadProject() (usecase.Project, error) {
	wd, err := os.Getwd()
	if err != nil {
		return usecase.Project{}, fmt.Errorf("get working directory: %w", err)
	}

	path := strings.TrimSpace(a.opts.configPath)
	if path != "" {
		if path, err = homedir.Expand(path); err != nil {
			return usecase.Project{}, fmt.Errorf("invalid --config path: %w", err)
		}
	}

	uc := usecase.NewLoadProject(projectfinder.NewFinder(), config.NewLoader(), a.logger)
	return uc.Execute(path, wd)
}

func (a *app) builder() *usecase.Build {
	compiler := wasmpack.NewCompiler(
		wasmpack.WithCommand(a.opts.compiler),
		wasmpack.WithOutput(a.errOut, a.errOut),
		wasmpack.WithLogger(a.logger),
	)
	return usecase.NewBuild(compiler, fsartifacts.NewLocator(), fsartifacts.NewWriter(), a.logger)
}

func (a *app) deployer(root string, save bool) *usecase.Deploy {
	sinks := map[domain.SinkKind]ports.DeploySink{
		domain.SinkCopy:   copysink.NewSink(copysink.WithLogger(a.logger)),
		domain.SinkUpload: uploadsink.NewSink(uploadsink.WithLogger(a.logger)),
	}

	opts := []usecase.DeployOption{usecase.WithDeployLogger(a.logger)}
	if save {
		opts = append(opts, usecase.WithReceipts(receiptstore.NewJSONStore(root)))
	}
	return usecase.NewDeploy(a.builder(), sinks, opts...)
}

// relTo shortens path for display when it lives under root.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
