// Package presets embeds the built-in "stylekit" style bundle.
package presets

import (
	"embed"
	"io/fs"
)

// Name is the bundle name the presets are registered under
const Name = "stylekit"

//go:embed styles
var styles embed.FS

// FS returns the bundle rooted at the styles directory
func FS() fs.FS {
	sub, err := fs.Sub(styles, "styles")
	if err != nil {
		panic(err)
	}
	return sub
}
