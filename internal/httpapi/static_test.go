package httpapi

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDist(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func newSPAEngine(dist string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(spaHandler(dist))
	return r
}

func TestSPAHandler(t *testing.T) {
	dist := newDist(t)
	r := newSPAEngine(dist)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"serves asset", http.MethodGet, "/assets/app.js", http.StatusOK, "console.log(1)"},
		{"client route falls back to index", http.MethodGet, "/dashboard/orders", http.StatusOK, "<html>app</html>"},
		{"unknown api route is json 404", http.MethodGet, "/api/v1/nope", http.StatusNotFound, `{"error":"Not found"}`},
		{"non-GET is json 404", http.MethodPost, "/dashboard", http.StatusNotFound, `{"error":"Not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHasSPA(t *testing.T) {
	assert.False(t, hasSPA(""))
	assert.False(t, hasSPA(t.TempDir()))
	assert.True(t, hasSPA(newDist(t)))
}
