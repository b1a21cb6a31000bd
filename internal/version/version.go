package version

import "stanio/pkg/api"

// Version is overridden at build time via -ldflags.
var Version = ""

func Current() string {
	if Version != "" {
		return Version
	}
	return api.Version()
}
