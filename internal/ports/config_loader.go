package ports

import "github.com/aalvaropc/screepsdeploy/internal/domain"

// ConfigLoader reads and validates a configuration document.
type ConfigLoader interface {
	Load(path string) (domain.Configuration, error)
}
