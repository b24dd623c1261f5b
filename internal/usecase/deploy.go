package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// Builder is satisfied by *Build.
type Builder interface {
	Execute(ctx context.Context, root string, build domain.BuildConfiguration) (domain.BuildResult, error)
}

// DeployOutcome is what a finished deploy produced.
type DeployOutcome struct {
	Mode      string
	Build     domain.BuildResult
	Report    domain.DeployReport
	ReceiptID string
}

type Deploy struct {
	builder  Builder
	sinks    map[domain.SinkKind]ports.DeploySink
	receipts ports.ReceiptStore
	logger   *slog.Logger
	now      func() time.Time
}

type DeployOption func(*Deploy)

// WithReceipts records each successful deploy in store.
func WithReceipts(store ports.ReceiptStore) DeployOption {
	return func(d *Deploy) { d.receipts = store }
}

func WithDeployLogger(l *slog.Logger) DeployOption {
	return func(d *Deploy) { d.logger = l }
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) DeployOption {
	return func(d *Deploy) { d.now = now }
}

func NewDeploy(b Builder, sinks map[domain.SinkKind]ports.DeploySink, opts ...DeployOption) *Deploy {
	d := &Deploy{
		builder: b,
		sinks:   sinks,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute resolves mode (or the configured default), builds with the mode's
// build override merged in, and publishes through the matching sink.
func (uc *Deploy) Execute(ctx context.Context, p Project, mode string) (DeployOutcome, error) {
	resolved, err := p.Config.Resolve(mode)
	if err != nil {
		return DeployOutcome{}, err
	}

	sink, ok := uc.sinks[resolved.Target.Kind()]
	if !ok {
		return DeployOutcome{}, &domain.OpError{
			Op:   "deploy.sink",
			Kind: domain.KindInvalidConfig,
			Path: p.ConfigPath,
			Err:  fmt.Errorf("no sink registered for %q deploys: %w", resolved.Target.Kind(), domain.ErrInvalidConfig),
		}
	}

	started := uc.now()
	build := resolved.Build.WithDefaults(p.RootName())

	result, err := uc.builder.Execute(ctx, p.Root, build)
	if err != nil {
		return DeployOutcome{}, err
	}

	uc.logger.Info("deploy.start", "mode", resolved.Mode, "sink", resolved.Target.Kind(), "branch", resolved.Target.BranchName())
	report, err := sink.Deploy(ctx, domain.DeployRequest{
		Mode:        resolved.Mode,
		ProjectRoot: p.Root,
		BuildRoot:   filepath.Join(p.Root, build.Path),
		Target:      resolved.Target,
	})
	if err != nil {
		return DeployOutcome{}, err
	}

	out := DeployOutcome{
		Mode:   resolved.Mode,
		Build:  result,
		Report: report,
	}

	if uc.receipts != nil {
		id, err := uc.receipts.SaveReceipt(domain.DeployReceipt{
			StartedAt:  started,
			FinishedAt: uc.now(),
			Build:      build,
			Target:     resolved.Target,
			Report:     report,
		})
		if err != nil {
			// The deploy itself already happened.
			uc.logger.Warn("deploy.receipt_failed", "err", err)
		} else {
			out.ReceiptID = id
		}
	}

	return out, nil
}
