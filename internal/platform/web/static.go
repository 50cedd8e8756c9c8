package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFiles embed.FS

var indexHTML = mustRead("static/index.html")

func mustRead(name string) []byte {
	data, err := staticFiles.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

func staticFS() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func serveIndex(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// cacheStatic sets cache headers by asset type.
func cacheStatic(c *gin.Context) {
	switch strings.ToLower(filepath.Ext(c.Request.URL.Path)) {
	case ".css", ".js", ".png", ".svg", ".ico":
		c.Header("Cache-Control", "public, max-age=604800")
	default:
		c.Header("Cache-Control", "public, max-age=3600")
	}
	c.Next()
}
