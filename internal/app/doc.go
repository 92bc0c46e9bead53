// Package app contains the core application logic. It wires the loader,
// the shared argument service and the manifest emitter together, and owns
// the per-toolchain evaluation lifecycle, decoupled from any specific
// entrypoint like a CLI.
package app
