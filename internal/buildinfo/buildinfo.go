// Package buildinfo carries version identifiers injected at link time via
// -ldflags "-X github.com/gtynan/vehicle-routing/internal/buildinfo.Version=...".
package buildinfo

import "runtime"

var (
    Version = "dev"
    Commit  = ""
    BuiltAt = ""
)

// Info returns the build identifiers plus the Go runtime version.
func Info() map[string]string {
    return map[string]string{
        "version": Version,
        "commit":  Commit,
        "builtAt": BuiltAt,
        "go":      runtime.Version(),
    }
}
