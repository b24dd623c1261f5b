package ports

import (
	"context"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// Compiler runs the external wasm toolchain and returns the directory it
// wrote its output to.
type Compiler interface {
	Compile(ctx context.Context, root string, build domain.BuildConfiguration) (outDir string, err error)
}
