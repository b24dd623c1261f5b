package bindgen

import "regexp"

// LoaderPrefix is the bootstrap the generator emits between the bindings and
// the point where init() starts building its imports object.
const LoaderPrefix = `
async function load(<<ident>>, <<ident>>) {<<skip>>}

async function init(<<ident>>) {
    if (typeof <<ident>> === 'undefined') {
        <<ident>> = new URL(<<string>>, import.meta.url);
    }
`

// LoaderSuffix is the fetch/instantiate tail of init() and the module's default export.
const LoaderSuffix = `
    if (typeof <<ident>> === 'string'<<line>>) {
        <<ident>> = fetch(<<ident>>);
    }

    const { instance, module } = await load(await <<ident>>, <<ident:imports>>);

    wasm = instance.exports;
    init.__wbindgen_wasm_module = module;

    return wasm;
}

export default init;
`

var (
	prefixRe = mustCompileTemplate(`\A(?P<bindings>(?s:.*?))(?m:^)[ \t]*`, LoaderPrefix, ``)
	suffixRe = mustCompileTemplate(``, LoaderSuffix, `\s*\z`)

	// Landmarks that must each occur exactly once.
	landmarks = []struct {
		name string
		re   *regexp.Regexp
	}{
		{"async function load(", regexp.MustCompile(`async\s+function\s+load\s*\(`)},
		{"async function init(", regexp.MustCompile(`async\s+function\s+init\s*\(`)},
		{"export default init;", regexp.MustCompile(`export\s+default\s+init\s*;`)},
	}
)

// Host symbol renames applied to the extracted body. The sandboxes have no
// console.error; console.log is their only logging surface.
var hostRenames = []struct{ from, to string }{
	{"console.error", "console.log"},
}
