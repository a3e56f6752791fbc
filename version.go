package texmath

import (
	"fmt"

	"github.com/maloquacious/semver"
)

// Version is the package release string, parsed and validated at
// init time so malformed bumps fail at build time rather than at
// whatever moment a caller first asks for ParsedVersion.
const Version = "v0.1.0"

var parsedVersion semver.Version

func init() {
	v, err := semver.Parse(Version)
	if err != nil {
		panic(fmt.Sprintf("texmath: invalid Version constant %q: %v", Version, err))
	}
	parsedVersion = v
}

// ParsedVersion returns the package version as a structured semver.Version.
func ParsedVersion() semver.Version {
	return parsedVersion
}
