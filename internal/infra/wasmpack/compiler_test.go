package wasmpack

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

func TestArgs(t *testing.T) {
	cases := []struct {
		name  string
		build domain.BuildConfiguration
		want  []string
	}{
		{
			name:  "defaults",
			build: domain.BuildConfiguration{OutName: "bot"},
			want:  []string{"build", "--target", "web", "--out-dir", "pkg", "--out-name", "bot", "--release"},
		},
		{
			name: "everything",
			build: domain.BuildConfiguration{
				Path:         "crates/bot",
				Profile:      domain.ProfileProfiling,
				OutName:      "bot",
				ExtraOptions: []string{"--features", "mmo"},
			},
			want: []string{
				"build", "--target", "web", "--out-dir", "pkg", "--out-name", "bot",
				"--profiling", "crates/bot", "--", "--features", "mmo",
			},
		},
		{
			name:  "dev",
			build: domain.BuildConfiguration{Profile: domain.ProfileDev},
			want:  []string{"build", "--target", "web", "--out-dir", "pkg", "--dev"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if diff := cmp.Diff(c.want, Args(c.build)); diff != "" {
				t.Fatalf("unexpected args (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOutputDir(t *testing.T) {
	if got := OutputDir("/p", domain.BuildConfiguration{}); got != filepath.Join("/p", "pkg") {
		t.Fatalf("unexpected dir %q", got)
	}
	if got := OutputDir("/p", domain.BuildConfiguration{Path: "crates/bot"}); got != filepath.Join("/p", "crates", "bot", "pkg") {
		t.Fatalf("unexpected dir %q", got)
	}
}

func fakeCompiler(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler stub needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-wasm-pack")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCompile_RunsInRootWithArgs(t *testing.T) {
	stub := fakeCompiler(t, `echo "$@" > invoked.txt; mkdir -p pkg; echo built`)
	root := t.TempDir()

	var stdout bytes.Buffer
	c := NewCompiler(WithCommand(stub+" --quiet"), WithOutput(&stdout, &stdout))
	out, err := c.Compile(context.Background(), root, domain.BuildConfiguration{OutName: "bot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != filepath.Join(root, "pkg") {
		t.Fatalf("unexpected out dir %q", out)
	}

	b, err := os.ReadFile(filepath.Join(root, "invoked.txt"))
	if err != nil {
		t.Fatalf("stub did not run in root: %v", err)
	}
	want := "--quiet build --target web --out-dir pkg --out-name bot --release"
	if got := strings.TrimSpace(string(b)); got != want {
		t.Fatalf("unexpected invocation\nwant: %s\ngot:  %s", want, got)
	}
	if !strings.Contains(stdout.String(), "built") {
		t.Fatalf("expected compiler output to be forwarded, got %q", stdout.String())
	}
}

func TestCompile_EnvIsPassed(t *testing.T) {
	stub := fakeCompiler(t, `echo "$SCREEPSDEPLOY_TEST" > env.txt`)
	root := t.TempDir()

	c := NewCompiler(WithCommand(stub), WithEnv("SCREEPSDEPLOY_TEST=yes"), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	if _, err := c.Compile(context.Background(), root, domain.BuildConfiguration{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := os.ReadFile(filepath.Join(root, "env.txt"))
	if strings.TrimSpace(string(b)) != "yes" {
		t.Fatalf("expected env to reach compiler, got %q", b)
	}
}

func TestCompile_NonZeroExit(t *testing.T) {
	stub := fakeCompiler(t, `echo "error: could not compile" >&2; exit 101`)

	var stderr bytes.Buffer
	c := NewCompiler(WithCommand(stub), WithOutput(&bytes.Buffer{}, &stderr))
	_, err := c.Compile(context.Background(), t.TempDir(), domain.BuildConfiguration{})
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected KindExecution, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 101") {
		t.Fatalf("expected exit status in error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "could not compile") {
		t.Fatalf("expected compiler stderr to be forwarded")
	}
}

func TestCompile_MissingBinary(t *testing.T) {
	c := NewCompiler(WithCommand("screepsdeploy-no-such-compiler"))
	_, err := c.Compile(context.Background(), t.TempDir(), domain.BuildConfiguration{})
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected KindExecution, got %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found hint, got %v", err)
	}
}

func TestCompile_BadCommandLine(t *testing.T) {
	for _, cmd := range []string{`"unterminated`, "   "} {
		c := NewCompiler(WithCommand(cmd))
		_, err := c.Compile(context.Background(), t.TempDir(), domain.BuildConfiguration{})
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("%q: expected KindInvalidConfig, got %v", cmd, err)
		}
	}
}
