package ports

import "github.com/aalvaropc/screepsdeploy/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
