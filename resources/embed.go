package resources

import "embed"

// FS exposes the static resource files served under /static/.
//
//go:embed style.css
var FS embed.FS
