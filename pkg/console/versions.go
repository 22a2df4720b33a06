// Package console holds the decision logic behind the Everest web console:
// version pickers, backup schedule forms, cron conversion, permission gating
// and the cluster mutations the console sends to the API. It has no I/O and
// works on the API models directly, so the CLI and tests can reuse it.
package console

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/everest-platform/console/models"
)

var versionRe = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// coerce extracts the first "x[.y[.z]]" run from s, so "8.0.32-24.2" becomes
// 8.0.32. It returns nil when s holds no number.
func coerce(s string) *semver.Version {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	parts := [3]uint64{}
	for i := 1; i <= 3; i++ {
		if m[i] == "" {
			continue
		}
		v, err := strconv.ParseUint(m[i], 10, 64)
		if err != nil {
			return nil
		}
		parts[i-1] = v
	}
	return semver.New(parts[0], parts[1], parts[2], "", "")
}

// FilterUpgradeVersions returns the engine versions a cluster running
// current may move to. Downgrades are dropped, as are major upgrades for PXC
// and PostgreSQL and major jumps of more than one for any engine. Versions
// that do not look like a version are kept. When current does not look like
// a version every version is returned. The result is sorted.
func FilterUpgradeVersions(engine *models.DatabaseEngine, current string) []string {
	versions := make([]string, 0, len(engine.Status.AvailableVersions.Engine))
	for v := range engine.Status.AvailableVersions.Engine {
		versions = append(versions, v)
	}
	sortVersions(versions)

	cur := coerce(current)
	if cur == nil {
		return versions
	}
	sameMajorOnly := engine.Spec.Type == models.DatabaseEnginePXC ||
		engine.Spec.Type == models.DatabaseEnginePostgresql

	result := make([]string, 0, len(versions))
	for _, v := range versions {
		sv := coerce(v)
		if sv == nil {
			result = append(result, v)
			continue
		}
		if !sv.GreaterThan(cur) {
			continue
		}
		if sameMajorOnly && sv.Major() != cur.Major() {
			continue
		}
		if sv.Major() > cur.Major()+1 {
			continue
		}
		result = append(result, v)
	}
	return result
}

// sortVersions orders by coerced version, then lexically. Unparsable
// versions go last.
func sortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := coerce(versions[i]), coerce(versions[j])
		switch {
		case a == nil && b == nil:
			return versions[i] < versions[j]
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(b):
			return a.LessThan(b)
		default:
			return versions[i] < versions[j]
		}
	})
}
