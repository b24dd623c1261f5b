package ports

import (
	"context"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// DeploySink publishes the deployable files found under the request's build root.
type DeploySink interface {
	Deploy(ctx context.Context, req domain.DeployRequest) (domain.DeployReport, error)
}

// FileScanner lists deployable files under a build root.
type FileScanner interface {
	Scan(buildRoot string, subpaths []string) ([]domain.DeployFile, error)
}
