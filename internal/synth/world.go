package synth

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// Top-level ES export keywords. The world host evaluates CommonJS.
var exportKeyword = regexp.MustCompile(`(?m)^export\s+((?:async\s+)?function|class|const|let|var)\b`)

// World builds the stateful-host loader. The binary module is deployed beside
// it as OutputWasmFile and fetched by name through require().
func World(req Request) (domain.SynthesizedLoader, error) {
	b := req.Build
	if err := requireFields("synth.world",
		[2]string{"out_name", b.OutName},
		[2]string{"output_js_file", b.OutputJSFile},
		[2]string{"output_wasm_file", b.OutputWasmFile},
	); err != nil {
		return domain.SynthesizedLoader{}, err
	}

	prelude := req.Prelude
	if strings.TrimSpace(prelude) == "" {
		prelude = DefaultWorldPrelude()
	}

	var out strings.Builder
	out.WriteString(strings.TrimRight(prelude, "\n"))
	out.WriteString("\n\n")

	if bindings := StripExports(req.Init.Bindings); bindings != "" {
		out.WriteString(bindings)
		out.WriteString("\n\n")
	}

	fmt.Fprintf(&out, `function wasm_fetch_module_bytes() {
    "use strict";
    return require('%s');
}

function wasm_initialize() {
    %s

    const wasm_module = new WebAssembly.Module(wasm_fetch_module_bytes());
    const instance = new WebAssembly.Instance(wasm_module, %s);
    wasm = instance.exports;
    return wasm;
}
`, ModuleName(b.OutputWasmFile), req.Init.Body, importsIdent(req.Init))

	return domain.SynthesizedLoader{
		Flavor:   domain.FlavorWorld,
		FileName: b.OutputJSFile,
		Source:   out.String(),
	}, nil
}

// ModuleName is the name the world host resolves a deployed file by: its base
// name without extension.
func ModuleName(file string) string {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// StripExports drops top-level export keywords, keeping the declarations.
func StripExports(bindings string) string {
	return exportKeyword.ReplaceAllString(bindings, "$1")
}
