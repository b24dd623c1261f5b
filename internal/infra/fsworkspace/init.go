package fsworkspace

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return ioError(root, err)
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		if abs, err := filepath.Abs(root); err == nil {
			name = filepath.Base(abs)
		}
	}

	if err := ensureGitignore(root); err != nil {
		return ioError(filepath.Join(root, ".gitignore"), err)
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, filepath.FromSlash(rel))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return ioError(dst, err)
		}

		b, err := render(p, name)
		if err != nil {
			return &domain.OpError{Op: "workspace.render", Kind: domain.KindExecution, Path: p, Err: err}
		}

		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return ioError(dst, err)
		}
		return nil
	})
}

func render(path, name string) ([]byte, error) {
	raw, err := fs.ReadFile(templatesFS, path)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(filepath.Base(path)).Delims("[[", "]]").Parse(string(raw))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ensureGitignore(root string) error {
	const header = "# screepsdeploy"
	entries := []string{
		"target/",
		"pkg/",
		".screeps/",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}

func ioError(path string, err error) error {
	return &domain.OpError{
		Op:   "workspace.init",
		Kind: domain.KindIO,
		Path: path,
		Err:  err,
	}
}
