// Package web holds the browser page that draws the family graph.
package web

import "embed"

//go:embed index.html app.js style.css
var Files embed.FS
