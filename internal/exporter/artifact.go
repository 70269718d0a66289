package exporter

import "strings"

// Kind identifies one of the exported artifacts.
type Kind string

const (
	KindFirmware   Kind = "firmware"
	KindBootloader Kind = "bootloader"
	KindPartitions Kind = "partitions"
)

// BinSuffix is the suffix every fallback candidate must carry.
const BinSuffix = ".bin"

// Artifact describes where an artifact is expected in the build directory
// and the name it is exported under.
type Artifact struct {
	Kind Kind

	// SourceName is the exact filename looked up in the build directory.
	SourceName string

	// CanonicalName is the destination filename. It never changes with
	// the matched source.
	CanonicalName string

	// FallbackPrefix enables the prefix/suffix scan when non-empty.
	FallbackPrefix string
}

// DefaultArtifacts returns the fixed set of exported artifacts in export order.
func DefaultArtifacts() []Artifact {
	return []Artifact{
		{
			Kind:          KindFirmware,
			SourceName:    "firmware.bin",
			CanonicalName: "firmware.bin",
		},
		{
			Kind:           KindBootloader,
			SourceName:     "bootloader.bin",
			CanonicalName:  "bootloader.bin",
			FallbackPrefix: "bootloader",
		},
		{
			Kind:           KindPartitions,
			SourceName:     "partitions.bin",
			CanonicalName:  "partitions.bin",
			FallbackPrefix: "partitions",
		},
	}
}

// HasFallback reports whether the artifact supports the fallback scan.
func (a Artifact) HasFallback() bool {
	return a.FallbackPrefix != ""
}

// FallbackPattern returns the glob-style description of the fallback scan,
// or an empty string when there is none.
func (a Artifact) FallbackPattern() string {
	if !a.HasFallback() {
		return ""
	}
	return a.FallbackPrefix + "*" + BinSuffix
}

// matchesFallback reports whether name is a fallback candidate.
func (a Artifact) matchesFallback(name string) bool {
	return a.HasFallback() &&
		strings.HasPrefix(name, a.FallbackPrefix) &&
		strings.HasSuffix(name, BinSuffix)
}
