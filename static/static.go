// Package static holds the assets served by the HTTP surface.
package static

import "embed"

// IndexFile is the landing page served at "/".
const IndexFile = "index.html"

//go:embed index.html
var FS embed.FS
