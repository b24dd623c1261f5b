package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// Loader reads screeps.toml (or screeps.yaml) documents.
type Loader struct {
	lookup domain.LookupFunc
}

type Option func(*Loader)

// WithLookup replaces the environment as the source of {{NAME}} placeholders.
func WithLookup(fn domain.LookupFunc) Option {
	return func(l *Loader) { l.lookup = fn }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.ConfigLoader = (*Loader)(nil)

func (l *Loader) Load(path string) (domain.Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
			err = fmt.Errorf("expected configuration to exist: %w", domain.ErrNotFound)
		}
		return domain.Configuration{}, &domain.OpError{
			Op:   "config.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}

	var doc documentDTO
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = decodeYAML(b)
	default:
		doc, err = decodeTOML(b)
	}
	if err != nil {
		return domain.Configuration{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err),
		}
	}

	return Map(path, doc, domain.NewPlaceholderResolver(l.lookup))
}
