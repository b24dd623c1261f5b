package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// Map validates every deploy mode of doc and returns the resolved document.
// All problems are reported together rather than stopping at the first one.
func Map(path string, doc documentDTO, vars *domain.PlaceholderResolver) (domain.Configuration, error) {
	var errs *multierror.Error

	cfg := domain.Configuration{
		Path:              path,
		DefaultDeployMode: strings.TrimSpace(doc.DefaultDeployMode),
		Modes:             make(map[string]domain.DeployMode, len(doc.Modes)),
	}

	for _, k := range doc.Unknown {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unrecognized configuration key %q", k))
	}

	build, err := mapBuild(keyBuild, doc.Build)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	cfg.Build = build

	names := make([]string, 0, len(doc.Modes))
	for name := range doc.Modes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mode, warnings, err := mapMode(name, doc.Modes[name], vars)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		cfg.Warnings = append(cfg.Warnings, warnings...)
		cfg.Modes[name] = mode
	}

	if cfg.DefaultDeployMode != "" {
		if _, ok := doc.Modes[cfg.DefaultDeployMode]; !ok {
			errs = multierror.Append(errs, invalidField(keyDefaultDeployMode,
				fmt.Sprintf("names undefined deploy mode %q", cfg.DefaultDeployMode)))
		}
	}

	if errs != nil {
		errs.ErrorFormat = listFormat
		return domain.Configuration{}, &domain.OpError{
			Op:   "config.validate",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  errs,
		}
	}
	return cfg, nil
}

func mapBuild(field string, b buildDTO) (domain.BuildConfiguration, error) {
	var errs *multierror.Error

	flavor, err := domain.ParseFlavor(b.Flavor)
	if err != nil {
		errs = multierror.Append(errs, invalidField(field+".flavor", err.Error()))
	}
	profile, err := domain.ParseProfile(b.BuildProfile)
	if err != nil {
		errs = multierror.Append(errs, invalidField(field+".build_profile", err.Error()))
	}

	prelude := strings.TrimSpace(b.InitializationHeaderFile)
	if prelude != "" {
		expanded, err := homedir.Expand(prelude)
		if err != nil {
			errs = multierror.Append(errs, invalidField(field+".initialization_header_file", err.Error()))
		}
		prelude = expanded
	}

	return domain.BuildConfiguration{
		Flavor:         flavor,
		Path:           strings.TrimSpace(b.Path),
		Profile:        profile,
		OutName:        strings.TrimSpace(b.OutName),
		ExtraOptions:   b.ExtraOptions,
		PreludeFile:    prelude,
		OutputJSFile:   strings.TrimSpace(b.OutputJSFile),
		OutputWasmFile: strings.TrimSpace(b.OutputWasmFile),
	}, errs.ErrorOrNil()
}

func mapMode(name string, m modeDTO, vars *domain.PlaceholderResolver) (domain.DeployMode, []string, error) {
	kind, err := sinkKind(name, m)
	if err != nil {
		return domain.DeployMode{}, nil, err
	}

	mode := domain.DeployMode{Name: name}
	var errs *multierror.Error

	if m.Build != nil {
		b, err := mapBuild(name+"."+keyBuild, *m.Build)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		mode.Build = b
	}

	branch := strings.TrimSpace(m.Branch)
	if branch == "" {
		branch = domain.DefaultBranch
	}

	var warnings []string
	switch kind {
	case domain.SinkCopy:
		sink, err := mapCopy(name, m, branch, vars)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		mode.Target = sink
	case domain.SinkUpload:
		sink, w, err := mapUpload(name, m, branch, vars)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		warnings = w
		mode.Target = sink
	}

	if err := errs.ErrorOrNil(); err != nil {
		return domain.DeployMode{}, nil, err
	}
	return mode, warnings, nil
}

// sinkKind honours an explicit mode field, else infers it: destination means
// copy, credential fields mean upload.
func sinkKind(name string, m modeDTO) (domain.SinkKind, error) {
	switch strings.ToLower(strings.TrimSpace(m.Mode)) {
	case string(domain.SinkCopy):
		return domain.SinkCopy, nil
	case string(domain.SinkUpload):
		return domain.SinkUpload, nil
	case "":
	default:
		return "", invalidField(name+".mode", fmt.Sprintf("unsupported mode %q (expected copy|upload)", m.Mode))
	}

	hasCopy := strings.TrimSpace(m.Destination) != ""
	hasUpload := m.AuthToken != "" || m.Username != "" || m.Password != ""

	switch {
	case hasCopy && hasUpload:
		return "", invalidField(name, "has both destination and credentials; set mode = \"copy\" or \"upload\"")
	case hasCopy:
		return domain.SinkCopy, nil
	case hasUpload:
		return domain.SinkUpload, nil
	default:
		return "", invalidField(name, "is neither a copy mode (destination) nor an upload mode (auth_token or username/password)")
	}
}

func mapCopy(name string, m modeDTO, branch string, vars *domain.PlaceholderResolver) (domain.CopySink, error) {
	dest, err := vars.ResolveField(name+".destination", strings.TrimSpace(m.Destination))
	if err != nil {
		return domain.CopySink{}, err
	}
	if dest == "" {
		return domain.CopySink{}, invalidField(name+".destination", "is required for copy modes")
	}
	dest, err = homedir.Expand(dest)
	if err != nil {
		return domain.CopySink{}, invalidField(name+".destination", err.Error())
	}

	return domain.CopySink{
		Destination:     dest,
		Branch:          branch,
		IncludeSubpaths: m.IncludeFiles,
		Prune:           m.Prune,
	}, nil
}

func mapUpload(name string, m modeDTO, branch string, vars *domain.PlaceholderResolver) (domain.UploadSink, []string, error) {
	var errs *multierror.Error
	var warnings []string

	resolve := func(field, v string) string {
		out, err := vars.ResolveField(name+"."+field, v)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		return out
	}

	token := resolve("auth_token", m.AuthToken)
	user := resolve("username", m.Username)
	pass := resolve("password", m.Password)

	var cred domain.Credential
	switch {
	case m.AuthToken != "":
		cred = domain.Credential{Kind: domain.CredentialToken, Token: token}
		if m.Username != "" || m.Password != "" {
			warnings = append(warnings, fmt.Sprintf("%s: both auth_token and username/password are set; using auth_token", name))
		}
	case m.Username != "" && m.Password != "":
		cred = domain.Credential{Kind: domain.CredentialBasic, Username: user, Password: pass}
	default:
		errs = multierror.Append(errs, invalidField(name, "either auth_token or username and password must be set"))
	}

	prefix := strings.TrimSpace(resolve("prefix", m.Prefix))
	host := strings.TrimSpace(resolve("hostname", m.Hostname))
	if host == "" {
		host = domain.DefaultHostname
	}

	useTLS := host == domain.DefaultHostname
	if m.SSL != nil {
		useTLS = *m.SSL
	}

	port := 80
	if useTLS {
		port = 443
	}
	if m.Port != nil {
		port = *m.Port
		if port < 1 || port > 65535 {
			errs = multierror.Append(errs, invalidField(name+".port", fmt.Sprintf("%d is out of range", port)))
		}
	}

	var timeout time.Duration
	if m.HTTPTimeout != nil {
		if *m.HTTPTimeout < 0 {
			errs = multierror.Append(errs, invalidField(name+".http_timeout", "must not be negative"))
		}
		timeout = time.Duration(*m.HTTPTimeout) * time.Second
	}

	if err := errs.ErrorOrNil(); err != nil {
		return domain.UploadSink{}, nil, err
	}

	return domain.UploadSink{
		Credential:      cred,
		Branch:          branch,
		IncludeSubpaths: m.IncludeFiles,
		Hostname:        host,
		UseTLS:          useTLS,
		Port:            port,
		Prefix:          prefix,
		Timeout:         timeout,
	}, warnings, nil
}

func invalidField(field, msg string) error {
	return fmt.Errorf("%s: %s: %w", field, msg, domain.ErrInvalidConfig)
}

func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%d problems:", len(errs)))
	for _, e := range errs {
		lines = append(lines, "  - "+e.Error())
	}
	return strings.Join(lines, "\n")
}
