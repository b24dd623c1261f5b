// Package bindgen recognizes the JavaScript loader emitted by wasm-bindgen
// (through wasm-pack's web target) and pulls out the parts that do not depend on
// the browser/Node bootstrap: the generated bindings and the body of init().
//
// Recognition is structural. A loader template is compiled into anchored regular
// expressions that tolerate whitespace and toolchain-chosen identifiers but nothing
// else, so an upstream format change surfaces as a KindShapeMismatch error instead of
// a broken deploy.
package bindgen
