package domain

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Flavor selects the sandbox host the loader is synthesized for.
type Flavor string

const (
	// FlavorWorld is the long-lived host with persistent globals and require().
	FlavorWorld Flavor = "world"
	// FlavorArena is the isolated host: no filesystem, one ES module per tick.
	FlavorArena Flavor = "arena"
)

func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case FlavorWorld:
		return FlavorWorld, nil
	case FlavorArena:
		return FlavorArena, nil
	default:
		return "", fmt.Errorf("unsupported flavor %q (expected world|arena)", s)
	}
}

// Profile is the compiler profile. Exactly one is active per build.
type Profile string

const (
	ProfileDev       Profile = "dev"
	ProfileProfiling Profile = "profiling"
	ProfileRelease   Profile = "release"
)

func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case ProfileDev:
		return ProfileDev, nil
	case ProfileProfiling:
		return ProfileProfiling, nil
	case ProfileRelease:
		return ProfileRelease, nil
	default:
		return "", fmt.Errorf("unsupported build_profile %q (expected dev|profiling|release)", s)
	}
}

// CompilerArgs collapses the profile into the single flag the compiler expects.
// An unset profile means release.
func (p Profile) CompilerArgs() []string {
	switch p {
	case ProfileDev:
		return []string{"--dev"}
	case ProfileProfiling:
		return []string{"--profiling"}
	default:
		return []string{"--release"}
	}
}

const (
	DefaultOutputJSFile   = "main.js"
	DefaultOutputWasmFile = "compiled.wasm"
	ArenaEntryFile        = "main.mjs"
	DefaultBranch         = "default"
	DefaultHostname       = "screeps.com"
)

// BuildConfiguration holds the build settings for one invocation.
// A zero string or empty slice means "unset" and is what Merge treats as no override.
type BuildConfiguration struct {
	Flavor         Flavor
	Path           string
	Profile        Profile
	OutName        string
	ExtraOptions   []string
	PreludeFile    string
	OutputJSFile   string
	OutputWasmFile string
}

// IsZero reports whether no field is set.
func (b BuildConfiguration) IsZero() bool {
	return b.Flavor == "" &&
		b.Path == "" &&
		b.Profile == "" &&
		b.OutName == "" &&
		len(b.ExtraOptions) == 0 &&
		b.PreludeFile == "" &&
		b.OutputJSFile == "" &&
		b.OutputWasmFile == ""
}

// Merge returns base with every set field of override applied on top.
// List fields are replaced wholesale when the override is non-empty, never concatenated.
// Neither input is mutated.
func Merge(base, override BuildConfiguration) BuildConfiguration {
	out := base
	out.ExtraOptions = slices.Clone(base.ExtraOptions)

	if override.Flavor != "" {
		out.Flavor = override.Flavor
	}
	if override.Path != "" {
		out.Path = override.Path
	}
	if override.Profile != "" {
		out.Profile = override.Profile
	}
	if override.OutName != "" {
		out.OutName = override.OutName
	}
	if len(override.ExtraOptions) > 0 {
		out.ExtraOptions = slices.Clone(override.ExtraOptions)
	}
	if override.PreludeFile != "" {
		out.PreludeFile = override.PreludeFile
	}
	if override.OutputJSFile != "" {
		out.OutputJSFile = override.OutputJSFile
	}
	if override.OutputWasmFile != "" {
		out.OutputWasmFile = override.OutputWasmFile
	}
	return out
}

// WithDefaults fills every unset field that has a default. rootName is the
// project directory name, used as the naming stem when out_name is unset.
func (b BuildConfiguration) WithDefaults(rootName string) BuildConfiguration {
	out := Merge(b, BuildConfiguration{})
	if out.Flavor == "" {
		out.Flavor = FlavorWorld
	}
	if out.Profile == "" {
		out.Profile = ProfileRelease
	}
	if out.OutName == "" {
		out.OutName = rootName
	}
	if out.OutputJSFile == "" {
		out.OutputJSFile = DefaultOutputJSFile
	}
	if out.OutputWasmFile == "" {
		out.OutputWasmFile = DefaultOutputWasmFile
	}
	return out
}

// DefaultSubpaths is where each flavor's deployable output lives relative to
// the build root.
func DefaultSubpaths(f Flavor) []string {
	if f == FlavorArena {
		return []string{"pkg"}
	}
	return []string{"target"}
}

type SinkKind string

const (
	SinkCopy   SinkKind = "copy"
	SinkUpload SinkKind = "upload"
)

// DeploymentTarget is either a CopySink or an UploadSink.
type DeploymentTarget interface {
	Kind() SinkKind
	BranchName() string
	Subpaths() []string
}

type CopySink struct {
	Destination     string
	Branch          string
	IncludeSubpaths []string
	Prune           bool
}

func (c CopySink) Kind() SinkKind { return SinkCopy }
func (c CopySink) BranchName() string { return c.Branch }
func (c CopySink) Subpaths() []string { return c.IncludeSubpaths }

type CredentialKind string

const (
	CredentialToken CredentialKind = "token"
	CredentialBasic CredentialKind = "basic"
)

// Credential holds exactly one of a token or a username/password pair,
// selected by Kind.
type Credential struct {
	Kind     CredentialKind
	Token    string
	Username string
	Password string
}

const maskValue = "********"

// Masked returns a copy with every secret replaced.
func (c Credential) Masked() Credential {
	out := c
	if out.Token != "" {
		out.Token = maskValue
	}
	if out.Password != "" {
		out.Password = maskValue
	}
	return out
}

type UploadSink struct {
	Credential      Credential
	Branch          string
	IncludeSubpaths []string
	Hostname        string
	UseTLS          bool
	Port            int
	Prefix          string
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration
}

func (u UploadSink) Kind() SinkKind { return SinkUpload }
func (u UploadSink) BranchName() string { return u.Branch }
func (u UploadSink) Subpaths() []string { return u.IncludeSubpaths }

// URL is the code endpoint: <scheme>://<host>:<port>[/<prefix>]/api/user/code.
func (u UploadSink) URL() string {
	scheme := "http"
	if u.UseTLS {
		scheme = "https"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(u.Hostname)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(u.Port))
	if p := strings.Trim(u.Prefix, "/"); p != "" {
		b.WriteByte('/')
		b.WriteString(p)
	}
	b.WriteString("/api/user/code")
	return b.String()
}

// DeployMode is one named entry of the configuration document.
type DeployMode struct {
	Name   string
	Target DeploymentTarget
	// Build overrides the default build configuration; zero means no override.
	Build BuildConfiguration
}

// Configuration is the whole parsed document.
type Configuration struct {
	Path              string
	DefaultDeployMode string
	Build             BuildConfiguration
	Modes             map[string]DeployMode
	// Warnings are non-fatal findings such as unrecognized keys.
	Warnings []string
}

// ResolvedDeployment is everything a deploy needs, with overrides merged.
type ResolvedDeployment struct {
	Mode   string
	Target DeploymentTarget
	Build  BuildConfiguration
}

// ModeNames returns the configured mode names, sorted.
func (c Configuration) ModeNames() []string {
	names := make([]string, 0, len(c.Modes))
	for k := range c.Modes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resolve selects a deploy mode (the requested one, else the configured default),
// and merges its build override into the default build configuration.
func (c Configuration) Resolve(requested string) (ResolvedDeployment, error) {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = strings.TrimSpace(c.DefaultDeployMode)
	}
	if name == "" {
		return ResolvedDeployment{}, &OpError{
			Op:   "config.resolve",
			Kind: KindInvalidConfig,
			Path: c.Path,
			Err:  fmt.Errorf("no deploy mode requested and default_deploy_mode is not set: %w", ErrInvalidConfig),
		}
	}

	mode, ok := c.Modes[name]
	if !ok {
		return ResolvedDeployment{}, &OpError{
			Op:   "config.resolve",
			Kind: KindInvalidConfig,
			Path: c.Path,
			Err: fmt.Errorf("deploy mode %q is not defined (known: %s): %w",
				name, strings.Join(c.ModeNames(), ", "), ErrInvalidConfig),
		}
	}

	build := Merge(c.Build, mode.Build)

	flavor := build.Flavor
	if flavor == "" {
		flavor = FlavorWorld
	}

	return ResolvedDeployment{
		Mode:   name,
		Target: withDefaultSubpaths(mode.Target, flavor),
		Build:  build,
	}, nil
}

func withDefaultSubpaths(t DeploymentTarget, f Flavor) DeploymentTarget {
	if len(t.Subpaths()) > 0 {
		return t
	}
	switch v := t.(type) {
	case CopySink:
		v.IncludeSubpaths = DefaultSubpaths(f)
		return v
	case UploadSink:
		v.IncludeSubpaths = DefaultSubpaths(f)
		return v
	default:
		return t
	}
}
