// Package static embeds the public capture site and the dashboard assets.
package static

import "embed"

//go:embed site web
var Files embed.FS
