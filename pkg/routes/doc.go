// Package routes provides the immutable routing table mapping stream names
// to their upstream source descriptors.
//
// The table is built once at startup from the loaded configuration and is
// read-only for the lifetime of the process, which makes it safe for
// unsynchronized concurrent reads from every connection handler. Per-stream
// relay options are resolved against the global options at build time, so a
// request only ever reads an already-merged, never-mutated option set.
package routes
