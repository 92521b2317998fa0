package version

// Version is overridden at build time with -ldflags "-X github.com/bnema/desk/internal/version.Version=...".
var Version = "dev"
