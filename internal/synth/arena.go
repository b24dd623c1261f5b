package synth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// WrapWidth is the number of base64 characters per embedded source line.
const WrapWidth = 100

// Arena builds the isolated-host entry module. The module bytes are embedded
// as base64 and decoded with the bundled atob polyfill at load time.
func Arena(req Request) (domain.SynthesizedLoader, error) {
	if err := requireFields("synth.arena",
		[2]string{"out_name", req.Build.OutName},
	); err != nil {
		return domain.SynthesizedLoader{}, err
	}

	var out strings.Builder
	out.WriteString(textCodingPolyfill)
	out.WriteString("\n")
	out.WriteString(base64Polyfill)
	out.WriteString(req.Init.Bindings)

	fmt.Fprintf(&out, `

async function load(buffer, imports) {
    let wasm_module = new WebAssembly.Module(buffer);
    return new WebAssembly.Instance(wasm_module, imports);
}

async function init() {
    %s

    const instance = await load(wasm_bytes, %s);
    wasm = instance.exports;
}

`, req.Init.Body, importsIdent(req.Init))

	out.WriteString(DecodeSection(req.Module))
	out.WriteString(`
await init();

wasm_bytes = null;
`)

	return domain.SynthesizedLoader{
		Flavor:   domain.FlavorArena,
		FileName: domain.ArenaEntryFile,
		Source:   out.String(),
	}, nil
}

// DecodeSection is the script fragment that embeds module and leaves its bytes
// in a Uint8Array named wasm_bytes.
func DecodeSection(module []byte) string {
	var b strings.Builder
	b.WriteString("let wasm_b64 = '")
	b.WriteString(Fold(base64.StdEncoding.EncodeToString(module), WrapWidth))
	b.WriteString(`';

let wasm_decoded = atob(wasm_b64);

wasm_b64 = null;

var len = wasm_decoded.length;
var wasm_bytes = new Uint8Array(len);
for (var i = 0; i < len; i++) {
    wasm_bytes[i] = wasm_decoded.charCodeAt(i);
}

wasm_decoded = null;
`)
	return b.String()
}

// Fold splits s into width-sized chunks joined as JavaScript string
// concatenation. Every chunk, the first included, starts on a fresh line, so
// the result is meant to sit between an opening and a closing quote.
func Fold(s string, width int) string {
	if width <= 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + (len(s)/width+1)*5)
	for i := 0; i < len(s); i += width {
		end := min(i+width, len(s))
		b.WriteString("' +\n'")
		b.WriteString(s[i:end])
	}
	return b.String()
}
