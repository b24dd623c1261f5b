package wasmpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// OutDir is where the compiler is told to write, relative to the crate.
const OutDir = "pkg"

// DefaultCommand is used when no compiler command is configured.
const DefaultCommand = "wasm-pack"

// Compiler runs `wasm-pack build` for the web target.
type Compiler struct {
	command string
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	env     []string
}

type Option func(*Compiler)

// WithCommand sets the compiler command line, e.g. "npx wasm-pack".
func WithCommand(cmd string) Option {
	return func(c *Compiler) { c.command = cmd }
}

// WithOutput routes the compiler's own output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Compiler) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(kv ...string) Option {
	return func(c *Compiler) { c.env = append(c.env, kv...) }
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		command: DefaultCommand,
		stdout:  os.Stderr,
		stderr:  os.Stderr,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Compiler = (*Compiler)(nil)

// Args is the argument list passed after the compiler command.
func Args(build domain.BuildConfiguration) []string {
	args := []string{"build", "--target", "web", "--out-dir", OutDir}
	if build.OutName != "" {
		args = append(args, "--out-name", build.OutName)
	}
	args = append(args, build.Profile.CompilerArgs()...)
	if build.Path != "" {
		args = append(args, build.Path)
	}
	if len(build.ExtraOptions) > 0 {
		args = append(args, "--")
		args = append(args, build.ExtraOptions...)
	}
	return args
}

// OutputDir is the directory the compiler writes for build under root.
func OutputDir(root string, build domain.BuildConfiguration) string {
	return filepath.Join(root, build.Path, OutDir)
}

func (c *Compiler) Compile(ctx context.Context, root string, build domain.BuildConfiguration) (string, error) {
	words, err := shellwords.Parse(c.command)
	if err != nil || len(words) == 0 {
		if err == nil {
			err = errors.New("empty compiler command")
		}
		return "", &domain.OpError{
			Op:   "wasmpack.compile",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("compiler command %q: %w", c.command, err),
		}
	}

	args := append(words[1:], Args(build)...)
	c.logger.Debug("build.compile", "dir", root, "cmd", words[0], "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, words[0], args...)
	cmd.Dir = root
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%s exited with status %d", words[0], exitErr.ExitCode())
		} else if errors.Is(err, exec.ErrNotFound) {
			err = fmt.Errorf("%s not found in PATH; install it with `cargo install wasm-pack`: %w", words[0], err)
		}
		return "", &domain.OpError{
			Op:   "wasmpack.compile",
			Kind: domain.KindExecution,
			Path: root,
			Err:  err,
		}
	}

	out := OutputDir(root, build)
	c.logger.Debug("build.compiled", "out_dir", out)
	return out, nil
}
