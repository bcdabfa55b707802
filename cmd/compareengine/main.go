// Package main is a minimal entry point for the comparison engine binary.
// The interactive UI, request framing, and report rendering that would
// normally drive internal/replay.Job are deliberately out of scope for this
// module (spec "Deliberately out of scope") and are left to external
// collaborators; this binary only prints its name. The build metadata
// variables below are set via ldflags and are not printed.
package main

import "fmt"

// Build-time metadata injected via ldflags.
var (
	version   = "dev"
	commit    = "none"
	date      = "unknown"
	goVersion = "unknown"
)

func main() {
	fmt.Println("compareengine")
}
