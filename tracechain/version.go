package tracechain

import "github.com/kolkov/tracechain/internal/trace/marker"

// Version information for tracechain.
const (
	// Version is the current release.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the library build.
type Info struct {
	// Version is the library version string.
	Version string

	// FormatMajor is the marker table format major version accepted.
	FormatMajor string

	// Markers is the number of markers the decoder understands.
	Markers int
}

// GetInfo returns information about the library.
//
// Example:
//
//	info := tracechain.GetInfo()
//	fmt.Printf("tracechain %s (marker format %s)\n", info.Version, info.FormatMajor)
func GetInfo() Info {
	return Info{
		Version:     Version,
		FormatMajor: marker.SupportedMajor,
		Markers:     len(marker.Names),
	}
}
