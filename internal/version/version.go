package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
)

// Version information for the didls CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Number is the plain semantic version, for machine consumers such as
	// the LSP serverInfo field.
	Number = "0.1.0-dev"

	// Version is the colorized semantic version for terminal output.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Full returns the complete version line including the Go toolchain and
// platform, the form bug reports should quote.
func Full() string {
	line := "didls " + Number
	if GitCommit != "" {
		line += " (" + GitCommit + ")"
	}
	return fmt.Sprintf("%s %s %s/%s", line, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
