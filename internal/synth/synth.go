package synth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// Request is everything a synthesizer needs. Build must already be resolved.
type Request struct {
	Build domain.BuildConfiguration
	Init  domain.ExtractedInitBody

	// Prelude replaces the default world prelude when non-empty.
	Prelude string
	// Module holds the binary module bytes; arena embeds them.
	Module []byte
}

// Synthesize dispatches on the build flavor.
func Synthesize(req Request) (domain.SynthesizedLoader, error) {
	switch req.Build.Flavor {
	case domain.FlavorWorld:
		return World(req)
	case domain.FlavorArena:
		return Arena(req)
	case "":
		return domain.SynthesizedLoader{}, missingField("synth", "flavor")
	default:
		return domain.SynthesizedLoader{}, &domain.OpError{
			Op:   "synth",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unsupported flavor %q: %w", req.Build.Flavor, domain.ErrInvalidConfig),
		}
	}
}

func missingField(op, field string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindMissingField,
		Err:  fmt.Errorf("%w: %s", domain.ErrMissingField, field),
	}
}

func requireFields(op string, fields ...[2]string) error {
	var errs []error
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			errs = append(errs, missingField(op, f[0]))
		}
	}
	return errors.Join(errs...)
}

func importsIdent(init domain.ExtractedInitBody) string {
	if init.ImportsIdent != "" {
		return init.ImportsIdent
	}
	return "imports"
}
