package domain

// ArtifactSet is the located compiler output: exactly one binary module and
// exactly one generated loader.
type ArtifactSet struct {
	Dir        string
	ModulePath string
	LoaderPath string
}

// ExtractedInitBody is the toolchain-independent part of a generated loader.
type ExtractedInitBody struct {
	// Bindings is the generated glue that precedes the loader's bootstrap
	// functions (exported wrappers, heap helpers, `let wasm;`).
	Bindings string
	// Body is the inside of the generated init function, starting at the
	// imports object, with host symbols already renamed.
	Body string
	// ImportsIdent is the identifier the body stores the imports object in.
	ImportsIdent string
}

// SynthesizedLoader is a finished loader for one sandbox flavor.
type SynthesizedLoader struct {
	Flavor Flavor
	// FileName is the base name the loader is written under.
	FileName string
	Source   string
}

// BuildResult describes the files a build left behind.
type BuildResult struct {
	Flavor    Flavor
	Artifacts ArtifactSet
	// Outputs are the deployable files written by the build.
	Outputs []string
	// RenamedAside maps an original generated file to where it was moved.
	RenamedAside map[string]string
}

// WorkspaceSpec describes a project directory to scaffold.
type WorkspaceSpec struct {
	Root string
	// Name is used as the example out_name; defaults to the root directory name.
	Name string
}
