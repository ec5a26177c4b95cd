// Package web menyimpan aset statis dashboard yang disematkan ke binary.
package web

import "embed"

//go:embed *.html css js
var Assets embed.FS
