package fsartifacts

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// Writer replaces build outputs in place: tmp file then rename, so a failed
// build never leaves a half-written loader behind.
type Writer struct {
	perm os.FileMode
}

type Option func(*Writer)

// WithPerm sets the mode of written files.
func WithPerm(perm os.FileMode) Option {
	return func(w *Writer) { w.perm = perm }
}

func NewWriter(opts ...Option) *Writer {
	w := &Writer{perm: 0o644}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ ports.ArtifactWriter = (*Writer)(nil)

func (w *Writer) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("fsartifacts.read", path, err)
	}
	return b, nil
}

func (w *Writer) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ioError("fsartifacts.mkdir", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, w.perm); err != nil {
		return ioError("fsartifacts.write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return ioError("fsartifacts.rename", path, err)
	}
	return nil
}

func (w *Writer) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return ioError("fsartifacts.copy", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ioError("fsartifacts.mkdir", filepath.Dir(dst), err)
	}

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, w.perm)
	if err != nil {
		return ioError("fsartifacts.copy", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return ioError("fsartifacts.copy", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return ioError("fsartifacts.copy", dst, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return ioError("fsartifacts.rename", dst, err)
	}
	return nil
}

func (w *Writer) RenameAside(path, newExt string) (string, error) {
	if !strings.HasPrefix(newExt, ".") {
		newExt = "." + newExt
	}
	dst := strings.TrimSuffix(path, filepath.Ext(path)) + newExt
	if err := os.Rename(path, dst); err != nil {
		return "", ioError("fsartifacts.rename_aside", path, err)
	}
	return dst, nil
}

func ioError(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindIO,
		Path: path,
		Err:  err,
	}
}
