// Package ui embeds the default page template and stylesheet, used when
// no assets directory is configured.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assetsFS embed.FS

// Assets returns the embedded files rooted at the assets directory, so
// that "index.html" and "styles.css" resolve directly.
func Assets() fs.FS {
	fsys, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		// "assets" is a valid constant path; Sub cannot fail.
		panic(err)
	}
	return fsys
}
