package projectfinder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

func TestFindConfig_FromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "bot")
	nested := filepath.Join(root, "src", "game")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := filepath.Join(root, "screeps.toml")
	if err := os.WriteFile(cfg, []byte("[build]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := NewFinder().FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if got != cfg {
		t.Fatalf("expected %s, got %s", cfg, got)
	}
	if Root(got) != root {
		t.Fatalf("expected root %s, got %s", root, Root(got))
	}
}

func TestFindConfig_PrefersTOMLThenYAML(t *testing.T) {
	root := t.TempDir()
	yml := filepath.Join(root, "screeps.yaml")
	if err := os.WriteFile(yml, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFinder().FindConfig(root)
	if err != nil || got != yml {
		t.Fatalf("expected yaml config, got %q, %v", got, err)
	}

	toml := filepath.Join(root, "screeps.toml")
	if err := os.WriteFile(toml, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = NewFinder().FindConfig(root)
	if err != nil || got != toml {
		t.Fatalf("expected toml to win, got %q, %v", got, err)
	}
}

func TestFindConfig_FilePathStartsAtItsDir(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, "screeps.toml")
	src := filepath.Join(root, "Cargo.toml")
	for _, p := range []string{cfg, src} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := NewFinder().FindConfig(src)
	if err != nil || got != cfg {
		t.Fatalf("expected %s, got %q, %v", cfg, got, err)
	}
}

func TestFindConfig_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	f := &Finder{ConfigFiles: []string{"screepsdeploy-test-unlikely.toml"}}
	_, err := f.FindConfig(filepath.Join(tmp, "a", "b"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestFindConfig_EmptyStart(t *testing.T) {
	if _, err := NewFinder().FindConfig(""); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
