// Package stdlib bundles the Steps standard library: floors and steps
// written in Steps itself, embedded into the binary. The loader registers
// them before project floors, so a project step with the same name
// shadows the library version.
package stdlib

import "embed"

// FS holds the bundled floor and step files.
//
//go:embed */*.floor */*.step
var FS embed.FS
