// Package pplog holds the embedded web shell served by cmd/pplog.
package pplog

import "embed"

// WebFS is the static app shell: index.html, the manifest and styles.
//
//go:embed web/dist
var WebFS embed.FS
