package copysink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/infra/deployscan"
	"github.com/aalvaropc/screepsdeploy/internal/infra/fsartifacts"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// Sink copies deployable files into <destination>/<branch>.
type Sink struct {
	scanner ports.FileScanner
	writer  ports.ArtifactWriter
	logger  *slog.Logger
}

type Option func(*Sink)

func WithScanner(s ports.FileScanner) Option {
	return func(k *Sink) { k.scanner = s }
}

func WithWriter(w ports.ArtifactWriter) Option {
	return func(k *Sink) { k.writer = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(k *Sink) { k.logger = l }
}

func NewSink(opts ...Option) *Sink {
	s := &Sink{
		scanner: deployscan.NewScanner(),
		writer:  fsartifacts.NewWriter(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.DeploySink = (*Sink)(nil)

func (s *Sink) Deploy(ctx context.Context, req domain.DeployRequest) (domain.DeployReport, error) {
	target, ok := req.Target.(domain.CopySink)
	if !ok {
		return domain.DeployReport{}, &domain.OpError{
			Op:   "copysink.deploy",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("mode %q is not a copy mode (got %T): %w", req.Mode, req.Target, domain.ErrInvalidConfig),
		}
	}

	dest := target.Destination
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(req.ProjectRoot, dest)
	}
	outDir := filepath.Join(dest, target.Branch)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.DeployReport{}, ioError("copysink.mkdir", outDir, err)
	}

	files, err := s.scanner.Scan(req.BuildRoot, target.IncludeSubpaths)
	if err != nil {
		return domain.DeployReport{}, err
	}

	report := domain.DeployReport{
		Mode:        req.Mode,
		Sink:        domain.SinkCopy,
		Branch:      target.Branch,
		Destination: outDir,
		Files:       files,
	}

	deployed := make(map[string]string, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if prev, dup := deployed[f.Name]; dup {
			s.logger.Warn("deploy.duplicate_name", "name", f.Name, "replaced", prev, "by", f.Path)
		}
		deployed[f.Name] = f.Path

		dst := filepath.Join(outDir, f.Name)
		if f.Digest != "" && sameContent(dst, f.Digest) {
			s.logger.Debug("deploy.unchanged", "file", dst)
			report.Unchanged = append(report.Unchanged, f.Name)
			continue
		}

		s.logger.Debug("deploy.copy", "from", f.Path, "to", dst)
		if err := s.writer.CopyFile(f.Path, dst); err != nil {
			return report, err
		}
	}

	if target.Prune {
		pruned, err := s.prune(outDir, deployed)
		report.Pruned = pruned
		if err != nil {
			return report, err
		}
	}

	s.logger.Info("deploy.copied",
		"mode", req.Mode,
		"destination", outDir,
		"files", len(files),
		"unchanged", len(report.Unchanged),
		"pruned", len(report.Pruned),
	)
	return report, nil
}

func (s *Sink) prune(outDir string, deployed map[string]string) ([]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, ioError("copysink.prune", outDir, err)
	}

	var pruned []string
	for _, e := range entries {
		if _, keep := deployed[e.Name()]; keep {
			continue
		}
		p := filepath.Join(outDir, e.Name())
		if e.IsDir() {
			s.logger.Debug("deploy.prune_skip_dir", "path", p)
			continue
		}

		s.logger.Info("deploy.prune", "path", p)
		if err := os.Remove(p); err != nil {
			return pruned, ioError("copysink.prune", p, err)
		}
		pruned = append(pruned, e.Name())
	}
	return pruned, nil
}

func sameContent(path, digest string) bool {
	got, err := deployscan.Digest(path)
	return err == nil && got == digest
}

func ioError(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindIO,
		Path: path,
		Err:  err,
	}
}
