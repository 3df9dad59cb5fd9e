package ruleset

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*.yaml
var embeddedRules embed.FS

// EmbeddedFS returns the bundled default rule table.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedRules, "defaults")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default loads the bundled rule table.
func Default() (*Set, error) {
	return LoadFS(EmbeddedFS())
}
