package images

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://old.example/files/product/foto/sde003.jpg", "sde003.jpg"},
		{"foto.php?src=/files/product/foto/sde003.jpg", "sde003.jpg"},
		{"https://old.example/", "image.jpg"},
		{"https://old.example/a", "image.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractFilename(tt.url), "url %q", tt.url)
	}
}

func TestFetcher_LocalCache(t *testing.T) {
	base := t.TempDir()
	logger := zap.NewNop()

	t.Run("exact path hit", func(t *testing.T) {
		dir := filepath.Join(base, "41215")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sde003.jpg"), []byte("img-bytes"), 0644))

		f := NewFetcher(base, "", time.Second, logger)
		got := f.Fetch("foto.php?src=/files/product/foto/sde003.jpg", "41215")
		assert.Equal(t, []byte("img-bytes"), got)
	})

	t.Run("case-insensitive fallback scan", func(t *testing.T) {
		dir := filepath.Join(base, "41216")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SDE004.JPG"), []byte("upper"), 0644))

		f := NewFetcher(base, "", time.Second, logger)
		got := f.Fetch("https://old.example/files/product/foto/sde004.jpg", "41216")
		assert.Equal(t, []byte("upper"), got)
	})

	t.Run("miss without site url yields nil", func(t *testing.T) {
		f := NewFetcher(base, "", time.Second, logger)
		assert.Nil(t, f.Fetch("/files/product/foto/missing.jpg", "99999"))
	})

	t.Run("blank and nan urls yield nil", func(t *testing.T) {
		f := NewFetcher(base, "", time.Second, logger)
		assert.Nil(t, f.Fetch("", "1"))
		assert.Nil(t, f.Fetch("nan", "1"))
	})
}

func TestFetcher_DownloadAndWriteBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/product/foto/sde005.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("downloaded"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	base := t.TempDir()
	f := NewFetcher(base, srv.URL, time.Second, zap.NewNop())

	got := f.Fetch("/files/product/foto/sde005.jpg", "41217")
	require.Equal(t, []byte("downloaded"), got)

	// Written back into the cache for the next run
	cached, err := os.ReadFile(filepath.Join(base, "41217", "sde005.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("downloaded"), cached)

	t.Run("non-image content type is treated as no image", func(t *testing.T) {
		assert.Nil(t, f.Fetch("/files/product/foto/other.jpg", "41218"))
	})
}
