package synth

import (
	"bytes"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

func testInit() domain.ExtractedInitBody {
	return domain.ExtractedInitBody{
		Bindings:     "let wasm;\n\nexport function loop() {\n    wasm.loop();\n}\n\nexport class Handle {}",
		Body:         "const imports = {};\n    imports.wbg = {};",
		ImportsIdent: "imports",
	}
}

func worldBuild() domain.BuildConfiguration {
	return domain.BuildConfiguration{}.WithDefaults("bot")
}

func arenaBuild() domain.BuildConfiguration {
	return domain.BuildConfiguration{Flavor: domain.FlavorArena}.WithDefaults("bot")
}

func TestWorld_Layout(t *testing.T) {
	out, err := World(Request{Build: worldBuild(), Init: testInit()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Flavor != domain.FlavorWorld || out.FileName != "main.js" {
		t.Fatalf("unexpected loader metadata: %+v", out)
	}
	src := out.Source

	if !strings.HasPrefix(src, "'use strict';") {
		t.Fatalf("expected default prelude first, got %q", src[:40])
	}
	for _, want := range []string{
		"module.exports.loop = function () {",
		"function loop() {",
		"class Handle {}",
		"return require('compiled');",
		"function wasm_initialize() {\n    const imports = {};",
		"new WebAssembly.Instance(wasm_module, imports);",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expected loader to contain %q", want)
		}
	}
	if strings.Contains(src, "export ") {
		t.Fatalf("expected top-level exports to be stripped")
	}
	if strings.Contains(src, "wasm_b64") || strings.Contains(src, "fetch(") {
		t.Fatalf("world loader must not embed or fetch the module")
	}

	order := []string{"wasm.loop();", "function wasm_fetch_module_bytes()", "function wasm_initialize()"}
	last := -1
	for _, s := range order {
		i := strings.Index(src, s)
		if i <= last {
			t.Fatalf("expected %q after previous section", s)
		}
		last = i
	}
}

func TestWorld_CustomPreludeAndNames(t *testing.T) {
	b := worldBuild()
	b.OutputJSFile = "entry.js"
	b.OutputWasmFile = "nested/bot_core.wasm"

	out, err := World(Request{Build: b, Init: testInit(), Prelude: "// mine\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.Source, "// mine\n\n") {
		t.Fatalf("expected custom prelude, got %q", out.Source[:20])
	}
	if strings.Contains(out.Source, "TextDecoder") {
		t.Fatalf("custom prelude must replace the default")
	}
	if !strings.Contains(out.Source, "require('bot_core')") {
		t.Fatalf("expected require by module stem")
	}
	if out.FileName != "entry.js" {
		t.Fatalf("unexpected file name %q", out.FileName)
	}
}

func TestWorld_MissingFields(t *testing.T) {
	_, err := World(Request{Build: domain.BuildConfiguration{Flavor: domain.FlavorWorld}, Init: testInit()})
	if !domain.IsKind(err, domain.KindMissingField) {
		t.Fatalf("expected KindMissingField, got %v", err)
	}
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	for _, f := range []string{"out_name", "output_js_file", "output_wasm_file"} {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("expected %s to be reported, got %v", f, err)
		}
	}
}

func TestArena_Layout(t *testing.T) {
	module := []byte("\x00asm\x01\x00\x00\x00")
	out, err := Arena(Request{Build: arenaBuild(), Init: testInit(), Module: module})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FileName != domain.ArenaEntryFile || out.Flavor != domain.FlavorArena {
		t.Fatalf("unexpected loader metadata: %+v", out)
	}
	src := out.Source

	order := []string{
		"r.TextDecoder=x,r.TextEncoder=y",
		`"function"!=typeof o.atob`,
		"export function loop()",
		"async function load(buffer, imports) {",
		"async function init() {\n    const imports = {};",
		"const instance = await load(wasm_bytes, imports);",
		"let wasm_b64 = '' +\n'AGFzbQEAAAA=';",
		"let wasm_decoded = atob(wasm_b64);",
		"await init();",
		"wasm_bytes = null;",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(src, s)
		if i < 0 {
			t.Fatalf("expected arena loader to contain %q", s)
		}
		if i <= last {
			t.Fatalf("expected %q after previous section", s)
		}
		last = i
	}
	if strings.Contains(src, "require(") || strings.Contains(src, "import.meta") {
		t.Fatalf("arena loader must be self-contained")
	}
}

func TestArena_MissingStem(t *testing.T) {
	_, err := Arena(Request{Build: domain.BuildConfiguration{Flavor: domain.FlavorArena}, Init: testInit()})
	if !domain.IsKind(err, domain.KindMissingField) {
		t.Fatalf("expected KindMissingField, got %v", err)
	}
}

func TestSynthesize_Dispatch(t *testing.T) {
	w, err := Synthesize(Request{Build: worldBuild(), Init: testInit()})
	if err != nil || w.Flavor != domain.FlavorWorld {
		t.Fatalf("world dispatch: %+v, %v", w.Flavor, err)
	}
	a, err := Synthesize(Request{Build: arenaBuild(), Init: testInit()})
	if err != nil || a.Flavor != domain.FlavorArena {
		t.Fatalf("arena dispatch: %+v, %v", a.Flavor, err)
	}
	if _, err := Synthesize(Request{Init: testInit()}); !domain.IsKind(err, domain.KindMissingField) {
		t.Fatalf("expected KindMissingField for unset flavor, got %v", err)
	}
}

func TestFold(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"", 100, ""},
		{"abc", 100, "' +\n'abc"},
		{"abcdef", 3, "' +\n'abc' +\n'def"},
		{"abcdefg", 3, "' +\n'abc' +\n'def' +\n'g"},
	}
	for _, c := range cases {
		if got := Fold(c.in, c.width); got != c.want {
			t.Errorf("Fold(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestFold_LinesBounded(t *testing.T) {
	module := bytes.Repeat([]byte{0xff, 0x00, 0x7f}, 5000)
	section := DecodeSection(module)
	for _, line := range strings.Split(section, "\n") {
		if len(line) > WrapWidth+len("'' +") {
			t.Fatalf("line of %d chars exceeds wrap width", len(line))
		}
	}
}

func TestModuleName(t *testing.T) {
	cases := map[string]string{
		"compiled.wasm":     "compiled",
		"bot.wasm":          "bot",
		"dir/sub/core.wasm": "core",
		`dir\win\core.wasm`: "core",
		"no_extension":      "no_extension",
		"archive.tar.wasm":  "archive.tar",
	}
	for in, want := range cases {
		if got := ModuleName(in); got != want {
			t.Errorf("ModuleName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripExports(t *testing.T) {
	in := "export function a() {}\nexport async function b() {}\nexport class C {}\nexport const d = 1;\n  export function nested() {}\nconst s = 'export function';"
	want := "function a() {}\nasync function b() {}\nclass C {}\nconst d = 1;\n  export function nested() {}\nconst s = 'export function';"
	if got := StripExports(in); got != want {
		t.Fatalf("StripExports mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

func joinBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}
