package usecase

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aalvaropc/screepsdeploy/internal/bindgen"
	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
	"github.com/aalvaropc/screepsdeploy/internal/synth"
)

const (
	// WorldOutDir holds the world loader and module, relative to the crate path.
	WorldOutDir = "target"

	asideLoaderExt = ".jsorig"
	asideModuleExt = ".wasmorig"
)

// Build compiles the crate, validates the generated loader and writes the
// flavor-specific deployable outputs.
type Build struct {
	compiler ports.Compiler
	locator  ports.ArtifactLocator
	writer   ports.ArtifactWriter
	logger   *slog.Logger
}

func NewBuild(c ports.Compiler, l ports.ArtifactLocator, w ports.ArtifactWriter, logger *slog.Logger) *Build {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Build{compiler: c, locator: l, writer: w, logger: logger}
}

// Execute runs the pipeline for root. Unset build fields take their defaults,
// with the root directory name as the naming stem.
func (uc *Build) Execute(ctx context.Context, root string, build domain.BuildConfiguration) (domain.BuildResult, error) {
	build = build.WithDefaults(filepath.Base(root))

	uc.logger.Info("build.compile", "root", root, "flavor", build.Flavor, "profile", build.Profile)
	outDir, err := uc.compiler.Compile(ctx, root, build)
	if err != nil {
		return domain.BuildResult{}, err
	}

	set, err := uc.locator.Locate(outDir)
	if err != nil {
		return domain.BuildResult{}, err
	}
	uc.logger.Debug("build.located", "module", set.ModulePath, "loader", set.LoaderPath)

	extracted, err := bindgen.ExtractFile(set.LoaderPath)
	if err != nil {
		return domain.BuildResult{}, err
	}

	result := domain.BuildResult{Flavor: build.Flavor, Artifacts: set}

	switch build.Flavor {
	case domain.FlavorArena:
		err = uc.arena(root, build, set, extracted, &result)
	default:
		err = uc.world(root, build, set, extracted, &result)
	}
	if err != nil {
		return domain.BuildResult{}, err
	}

	uc.logger.Info("build.done", "flavor", result.Flavor, "outputs", len(result.Outputs))
	return result, nil
}

func (uc *Build) world(root string, build domain.BuildConfiguration, set domain.ArtifactSet, extracted domain.ExtractedInitBody, result *domain.BuildResult) error {
	req := synth.Request{Build: build, Init: extracted}

	if build.PreludeFile != "" {
		path := build.PreludeFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		b, err := uc.writer.ReadFile(path)
		if err != nil {
			return err
		}
		req.Prelude = string(b)
	}

	loader, err := synth.Synthesize(req)
	if err != nil {
		return err
	}

	outDir := filepath.Join(root, build.Path, WorldOutDir)
	jsPath := filepath.Join(outDir, loader.FileName)
	wasmPath := filepath.Join(outDir, build.OutputWasmFile)

	if err := uc.writer.WriteFile(jsPath, []byte(loader.Source)); err != nil {
		return err
	}
	if err := uc.writer.CopyFile(set.ModulePath, wasmPath); err != nil {
		return err
	}

	result.Outputs = []string{jsPath, wasmPath}
	return nil
}

func (uc *Build) arena(root string, build domain.BuildConfiguration, set domain.ArtifactSet, extracted domain.ExtractedInitBody, result *domain.BuildResult) error {
	if build.PreludeFile != "" {
		uc.logger.Debug("build.prelude_ignored", "flavor", build.Flavor, "file", build.PreludeFile)
	}

	module, err := uc.writer.ReadFile(set.ModulePath)
	if err != nil {
		return err
	}

	loader, err := synth.Synthesize(synth.Request{Build: build, Init: extracted, Module: module})
	if err != nil {
		return err
	}

	// Originals are renamed only once the entry point is on disk.
	entry := filepath.Join(set.Dir, loader.FileName)
	if err := uc.writer.WriteFile(entry, []byte(loader.Source)); err != nil {
		return err
	}

	result.RenamedAside = make(map[string]string, 2)
	for _, mv := range []struct{ path, ext string }{
		{set.ModulePath, asideModuleExt},
		{set.LoaderPath, asideLoaderExt},
	} {
		moved, err := uc.writer.RenameAside(mv.path, mv.ext)
		if err != nil {
			return err
		}
		result.RenamedAside[mv.path] = moved
	}

	result.Outputs = []string{entry}
	return nil
}
