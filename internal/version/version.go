package version

import "time"

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
)

// String resolves the build identity, falling back to a UTC timestamp for
// untagged local builds.
func String() string {
	v := Version
	if v == "" {
		v = time.Now().UTC().Format("20060102T150405Z")
	}
	if Commit == "" {
		return v
	}
	c := Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return v + " (" + c + ")"
}
