package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var embedded embed.FS

// staticFiles serves dir when set, otherwise the assets built into the binary
func staticFiles(dir string) http.Handler {
	if dir != "" {
		return http.FileServer(http.Dir(dir))
	}
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
