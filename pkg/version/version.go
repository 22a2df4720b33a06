// Package version holds the build information of the console binaries.
package version

import (
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/everest-platform/console/models"
)

const (
	// ProjectName is the name reported by the version endpoint.
	ProjectName = "Everest"
	devVersion  = "0.0.0"
)

// Set with -ldflags at build time.
//
//nolint:gochecknoglobals
var (
	Version    = "v" + devVersion
	FullCommit = ""
)

var rcSuffix = regexp.MustCompile(`-rc\d+$`)

// IsRC reports whether v is a release candidate.
func IsRC(v string) bool {
	return rcSuffix.MatchString(v)
}

// IsDev reports whether v is a development build.
func IsDev(v string) bool {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return sv.Major() == 0 && sv.Minor() == 0 && sv.Patch() == 0
}

// Info returns the build information of the running binary.
func Info() models.Version {
	return models.Version{
		ProjectName: ProjectName,
		Version:     Version,
		FullCommit:  FullCommit,
	}
}
