package synth

import _ "embed"

// textcoding.js is the CC0 FastestSmallestTextEncoderDecoder polyfill
// (github.com/anonyco/FastestSmallestTextEncoderDecoder).
//
//go:embed assets/textcoding.js
var textCodingPolyfill string

// base64.js is the Apache-2.0 Base64.js atob/btoa polyfill
// (github.com/davidchambers/Base64.js).
//
//go:embed assets/base64.js
var base64Polyfill string

//go:embed assets/world_prelude.js
var defaultWorldPrelude string

// DefaultWorldPrelude is emitted at the top of a world loader unless the build
// configures initialization_header_file.
func DefaultWorldPrelude() string {
	return textCodingPolyfill + "\n" + defaultWorldPrelude
}
