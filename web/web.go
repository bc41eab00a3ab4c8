// Package web holds the embedded browser front end served by the gifmood
// service.
package web

import "embed"

//go:embed index.html app.js style.css
var Assets embed.FS
