package bindgen

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

const canonicalPrefix = `async function load(module, imports) {
    if (typeof Response === 'function' && module instanceof Response) {
        const bytes = await module.arrayBuffer();
        return await WebAssembly.instantiate(bytes, imports);
    } else {
        const instance = await WebAssembly.instantiate(module, imports);
        if (instance instanceof WebAssembly.Instance) {
            return { instance, module };
        } else {
            return instance;
        }
    }
}

async function init(input) {
    if (typeof input === 'undefined') {
        input = new URL('bot_bg.wasm', import.meta.url);
    }`

const canonicalSuffix = `    if (typeof input === 'string' || (typeof Request === 'function' && input instanceof Request) || (typeof URL === 'function' && input instanceof URL)) {
        input = fetch(input);
    }

    const { instance, module } = await load(await input, imports);

    wasm = instance.exports;
    init.__wbindgen_wasm_module = module;

    return wasm;
}

export default init;
`

// Same structure, different whitespace and generator-chosen identifiers.
const respacedPrefix = "async  function load(m0,i1){\n\t// streaming fallbacks elided\n}\nasync function init(src) {\n" +
	"\tif (typeof src === 'undefined') { src = new URL(\"x_bg.wasm\", import.meta.url); }"

const respacedSuffix = "\tif(typeof src==='string'||src instanceof URL){src=fetch(src);}\n" +
	"\tconst {instance,module}=await load(await src,imps);\n\twasm=instance.exports;\n" +
	"\tinit.__wbindgen_wasm_module=module;\n\treturn wasm;\n}\n\nexport default init;\n\n\n"

const bindings = "let wasm;\n\nexport function loop() {\n    wasm.loop();\n}"

func assemble(bindings, prefix, body, suffix string) string {
	return bindings + "\n\n" + prefix + "\n" + body + "\n" + suffix
}

func TestExtract_RealisticLoader(t *testing.T) {
	out, err := ExtractFile(filepath.Join("testdata", "bot.js"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out.Body, "const imports = {};") {
		t.Fatalf("expected body to start at imports object, got %q", firstLine(out.Body))
	}
	if !strings.HasSuffix(out.Body, "};") {
		t.Fatalf("expected body to end with the last import, got %q", out.Body[len(out.Body)-20:])
	}
	if strings.Contains(out.Body, "console.error") {
		t.Fatalf("expected console.error to be renamed")
	}
	if !strings.Contains(out.Body, "console.log(getStringFromWasm0(arg0, arg1));") {
		t.Fatalf("expected console.log in body")
	}
	if out.ImportsIdent != "imports" {
		t.Fatalf("expected imports ident, got %q", out.ImportsIdent)
	}
	if !strings.HasPrefix(out.Bindings, "let wasm;") || !strings.HasSuffix(out.Bindings, "wasm.loop();\n}") {
		t.Fatalf("unexpected bindings boundaries: %q", out.Bindings)
	}
	if strings.Contains(out.Bindings, "async function load") || strings.Contains(out.Body, "fetch(") {
		t.Fatalf("bootstrap leaked into extracted parts")
	}
}

func TestExtract_ReturnsBodyForValidTriples(t *testing.T) {
	bodies := []string{
		"const imports = {};",
		"const imports = {};\nimports.wbg = {};\nimports.wbg.__wbg_log = function(a) { console.error(a); };",
		"const imps = {};\n\n\timps.wbg = { x: 1 };\n// console.error stays renamed even in comments",
		"const imports = {}; if (typeof x === 'string') { y(); }",
	}
	shapes := []struct {
		name, prefix, suffix, imports string
	}{
		{"canonical", canonicalPrefix, canonicalSuffix, "imports"},
		{"respaced", respacedPrefix, respacedSuffix, "imps"},
	}

	for _, sh := range shapes {
		for i, body := range bodies {
			text := assemble(bindings, sh.prefix, body, sh.suffix)

			out, err := Extract(text)
			if err != nil {
				t.Fatalf("%s/body#%d: unexpected error: %v", sh.name, i, err)
			}
			want := strings.ReplaceAll(body, "console.error", "console.log")
			if out.Body != want {
				t.Fatalf("%s/body#%d: body mismatch\nwant: %q\ngot:  %q", sh.name, i, want, out.Body)
			}
			if out.Bindings != bindings {
				t.Fatalf("%s/body#%d: bindings mismatch: %q", sh.name, i, out.Bindings)
			}
			if out.ImportsIdent != sh.imports {
				t.Fatalf("%s/body#%d: imports ident %q, want %q", sh.name, i, out.ImportsIdent, sh.imports)
			}
		}
	}
}

func TestExtract_EmptyBindings(t *testing.T) {
	out, err := Extract(canonicalPrefix + "\nconst imports = {};\n" + canonicalSuffix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Bindings != "" {
		t.Fatalf("expected empty bindings, got %q", out.Bindings)
	}
}

func TestExtract_CRLF(t *testing.T) {
	text := strings.ReplaceAll(assemble(bindings, canonicalPrefix, "const imports = {};", canonicalSuffix), "\n", "\r\n")
	out, err := Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Body != "const imports = {};" {
		t.Fatalf("unexpected body %q", out.Body)
	}
}

func TestExtract_RejectsDriftedLoaders(t *testing.T) {
	body := "const imports = {};"
	cases := []struct {
		name string
		text string
		part string
	}{
		{
			name: "load takes extra parameter",
			text: assemble(bindings, strings.Replace(canonicalPrefix, "load(module, imports)", "load(module, imports, opts)", 1), body, canonicalSuffix),
			part: "prefix",
		},
		{
			name: "input default no longer uses import.meta",
			text: assemble(bindings, strings.Replace(canonicalPrefix, "import.meta.url", "document.baseURI", 1), body, canonicalSuffix),
			part: "prefix",
		},
		{
			name: "init renamed",
			text: assemble(bindings, strings.Replace(canonicalPrefix, "async function init(", "async function __wbg_init(", 1), body, canonicalSuffix),
			part: "prefix",
		},
		{
			name: "extra named export after default",
			text: assemble(bindings, canonicalPrefix, body, canonicalSuffix+"export { initSync };\n"),
			part: "suffix",
		},
		{
			name: "exports read differently",
			text: assemble(bindings, canonicalPrefix, body, strings.Replace(canonicalSuffix, "wasm = instance.exports;", "wasm = instance.exports.default;", 1)),
			part: "suffix",
		},
		{
			name: "fetch replaced",
			text: assemble(bindings, canonicalPrefix, body, strings.Replace(canonicalSuffix, "input = fetch(input);", "input = readFile(input);", 1)),
			part: "suffix",
		},
		{
			name: "duplicate loader",
			text: assemble(bindings, canonicalPrefix, body, canonicalSuffix) + "\n" + canonicalPrefix,
			part: "prefix",
		},
		{
			name: "not a loader at all",
			text: "module.exports.loop = function() {};\n",
			part: "prefix",
		},
		{
			name: "empty",
			text: "",
			part: "prefix",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := Extract(c.text)
			if err == nil {
				t.Fatalf("expected error, got body %q", out.Body)
			}
			if !domain.IsKind(err, domain.KindShapeMismatch) {
				t.Fatalf("expected KindShapeMismatch, got %v", err)
			}
			if !errors.Is(err, domain.ErrUnexpectedLoaderShape) {
				t.Fatalf("expected ErrUnexpectedLoaderShape, got %v", err)
			}
			var se *domain.ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("expected ShapeError in chain")
			}
			if se.Part != c.part {
				t.Fatalf("expected failing part %q, got %q (%s)", c.part, se.Part, se.Reason)
			}
			if out != (domain.ExtractedInitBody{}) {
				t.Fatalf("expected zero value on error, got %+v", out)
			}
		})
	}
}

func TestExtract_SnippetIsBounded(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("export function f() { return 'not a loader'; }\n")
	}

	_, err := Extract(b.String())
	var se *domain.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if n := strings.Count(se.Snippet, "\n") + 1; n > snippetLines {
		t.Fatalf("snippet has %d lines, want <= %d", n, snippetLines)
	}
	if len(se.Snippet) > snippetBytes {
		t.Fatalf("snippet has %d bytes, want <= %d", len(se.Snippet), snippetBytes)
	}
	if !strings.HasPrefix(se.Snippet, "export function f()") {
		t.Fatalf("snippet should start at the top of the loader, got %q", firstLine(se.Snippet))
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "nope.js"))
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected KindIO, got %v", err)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
