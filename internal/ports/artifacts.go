package ports

import "github.com/aalvaropc/screepsdeploy/internal/domain"

// ArtifactLocator finds the compiler's binary module and loader in a directory.
type ArtifactLocator interface {
	Locate(dir string) (domain.ArtifactSet, error)
}

// ArtifactWriter places build outputs on disk.
type ArtifactWriter interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	CopyFile(src, dst string) error
	// RenameAside moves path to the same name with newExt and returns the new path.
	RenameAside(path, newExt string) (string, error)
}
