// Package exporter copies the firmware images produced by a build into the
// per-environment docs directory of a project.
//
// Three artifacts are exported: the main image, the bootloader and the
// partition table. Each is looked up by its exact name in the build
// directory first; the bootloader and partition table fall back to the
// lexicographically first "<prefix>*.bin" file when the exact name is
// absent. Destination names are always the canonical ones.
//
// A missing artifact is never an error. It is reported on the output
// writer and collected in the Result so callers can decide whether to
// escalate.
package exporter
