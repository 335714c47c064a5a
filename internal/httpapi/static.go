package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// spaHandler serve arquivos de distDir e cai em index.html para rotas do cliente.
// Rotas /api desconhecidas continuam respondendo 404 em JSON.
func spaHandler(distDir string) gin.HandlerFunc {
	index := filepath.Join(distDir, "index.html")

	return func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		// path.Clean a partir de "/" impede sair de distDir
		name := filepath.Join(distDir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}

		c.File(index)
	}
}

// hasSPA informa se distDir contém um index.html
func hasSPA(distDir string) bool {
	if distDir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(distDir, "index.html"))
	return err == nil && !info.IsDir()
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
