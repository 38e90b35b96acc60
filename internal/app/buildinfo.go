package app

// Set with -ldflags "-X github.com/hyperifyio/litenote/internal/app.BuildVersion=..."
// by release builds. The defaults identify local builds.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)
