package config

// Document keys shared by the TOML and YAML readers.
const (
	keyDefaultDeployMode = "default_deploy_mode"
	keyBuild             = "build"
)

type buildDTO struct {
	Flavor                   string   `toml:"flavor" yaml:"flavor"`
	Path                     string   `toml:"path" yaml:"path"`
	BuildProfile             string   `toml:"build_profile" yaml:"build_profile"`
	OutName                  string   `toml:"out_name" yaml:"out_name"`
	ExtraOptions             []string `toml:"extra_options" yaml:"extra_options"`
	InitializationHeaderFile string   `toml:"initialization_header_file" yaml:"initialization_header_file"`
	OutputJSFile             string   `toml:"output_js_file" yaml:"output_js_file"`
	OutputWasmFile           string   `toml:"output_wasm_file" yaml:"output_wasm_file"`
}

type modeDTO struct {
	Mode         string    `toml:"mode" yaml:"mode"`
	Branch       string    `toml:"branch" yaml:"branch"`
	Build        *buildDTO `toml:"build" yaml:"build"`
	IncludeFiles []string  `toml:"include_files" yaml:"include_files"`

	// upload
	AuthToken   string `toml:"auth_token" yaml:"auth_token"`
	Username    string `toml:"username" yaml:"username"`
	Password    string `toml:"password" yaml:"password"`
	Hostname    string `toml:"hostname" yaml:"hostname"`
	SSL         *bool  `toml:"ssl" yaml:"ssl"`
	Port        *int   `toml:"port" yaml:"port"`
	Prefix      string `toml:"prefix" yaml:"prefix"`
	HTTPTimeout *int   `toml:"http_timeout" yaml:"http_timeout"`

	// copy
	Destination string `toml:"destination" yaml:"destination"`
	Prune       bool   `toml:"prune" yaml:"prune"`
}

type documentDTO struct {
	DefaultDeployMode string
	Build             buildDTO
	Modes             map[string]modeDTO
	// Unknown holds dotted paths of keys nothing consumed.
	Unknown []string
}

var buildKeys = keySet(
	"flavor", "path", "build_profile", "out_name", "extra_options",
	"initialization_header_file", "output_js_file", "output_wasm_file",
)

var modeKeys = keySet(
	"mode", "branch", "build", "include_files",
	"auth_token", "username", "password", "hostname", "ssl", "port", "prefix", "http_timeout",
	"destination", "prune",
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
