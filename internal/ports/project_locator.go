package ports

// ProjectLocator finds the configuration document governing a directory.
type ProjectLocator interface {
	FindConfig(startDir string) (path string, err error)
}
