package version

import (
	"runtime"
	"runtime/debug"
)

// Build information, set with -ldflags "-X" at release time.
var (
	Version   = "0.0.0-dev"
	Revision  = ""
	Branch    = ""
	BuildUser = ""
	BuildDate = ""
	GoVersion = runtime.Version()
)

func init() {
	if Revision != "" {
		return
	}

	Revision = "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			Revision = s.Value
		}
	}
}
