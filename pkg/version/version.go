// Package version holds the cvrpsolve build identity, overwritten at
// build time via -ldflags the way CloudSlash stamps its own binary.
package version

// Current defaults to "dev"; release builds overwrite it with
// -ldflags "-X github.com/cvrpsolve/engine/pkg/version.Current=...".
var Current = "dev"

// AppName is the CLI's display name.
const AppName = "cvrpsolve"
