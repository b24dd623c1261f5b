// Package synth turns an extracted wasm-bindgen init body into a loader the
// Screeps sandboxes can evaluate.
//
// World output is a CommonJS script that pulls the module bytes in with
// require(); Arena output is a single ES module with the module bytes embedded
// as base64 text and the polyfills the arena host lacks.
package synth
