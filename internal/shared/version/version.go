package version

// Version is overridden at build time via -ldflags "-X hooklint/internal/shared/version.Version=...".
var Version = "0.1.0"
