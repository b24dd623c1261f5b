package deployscan

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zeebo/blake3"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// DefaultPattern matches the deployable set: binary modules, loaders and
// self-contained ES module entry points.
const DefaultPattern = "*.{wasm,js,mjs}"

// Scanner walks each include subpath, one level deep.
type Scanner struct {
	pattern string
	digests bool
}

type Option func(*Scanner)

// WithPattern overrides the file-name pattern (doublestar syntax).
func WithPattern(p string) Option {
	return func(s *Scanner) { s.pattern = p }
}

// WithDigests toggles BLAKE3 content digests on scanned files.
func WithDigests(enabled bool) Option {
	return func(s *Scanner) { s.digests = enabled }
}

func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{pattern: DefaultPattern, digests: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.FileScanner = (*Scanner)(nil)

func (s *Scanner) Scan(buildRoot string, subpaths []string) ([]domain.DeployFile, error) {
	if !doublestar.ValidatePattern(s.pattern) {
		return nil, &domain.OpError{
			Op:   "deployscan.scan",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("invalid file pattern %q: %w", s.pattern, doublestar.ErrBadPattern),
		}
	}

	var files []domain.DeployFile
	for _, sub := range subpaths {
		dir := filepath.Join(buildRoot, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "deployscan.scan",
				Kind: domain.KindIO,
				Path: dir,
				Err:  err,
			}
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ok, _ := doublestar.Match(s.pattern, e.Name())
			if !ok {
				continue
			}

			f, err := s.describe(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func (s *Scanner) describe(path string) (domain.DeployFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.DeployFile{}, ioError(path, err)
	}

	f := domain.DeployFile{
		Path:   path,
		Name:   filepath.Base(path),
		Binary: IsBinary(path),
		Size:   info.Size(),
	}
	if s.digests {
		d, err := Digest(path)
		if err != nil {
			return domain.DeployFile{}, err
		}
		f.Digest = d
	}
	return f, nil
}

// IsBinary reports whether path is a binary module by extension.
func IsBinary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wasm")
}

// Stem is the file name without its extension; uploads are keyed by it.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Digest is the hex BLAKE3-256 of the file's content.
func Digest(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", ioError(path, err)
	}
	defer in.Close()

	h := blake3.New()
	if _, err := io.Copy(h, in); err != nil {
		return "", ioError(path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func ioError(path string, err error) error {
	return &domain.OpError{
		Op:   "deployscan.read",
		Kind: domain.KindIO,
		Path: path,
		Err:  err,
	}
}
