package usecase

import (
	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

// Execute scaffolds root. name seeds the example out_name; empty means the
// directory name.
func (uc *InitWorkspace) Execute(root, name string, force bool) error {
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root, Name: name}, force)
}
