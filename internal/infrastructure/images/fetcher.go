package images

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fetcher resolves legacy product images. It checks the local cache
// directory first, keyed by legacy id, and falls back to an HTTP
// download from the old site, writing the bytes back into the cache.
type Fetcher struct {
	basePath      string
	legacySiteURL string
	client        *http.Client
	logger        *zap.Logger
}

// NewFetcher creates an image fetcher
func NewFetcher(basePath, legacySiteURL string, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		basePath:      basePath,
		legacySiteURL: strings.TrimRight(legacySiteURL, "/"),
		client:        &http.Client{Timeout: timeout},
		logger:        logger.Named("images"),
	}
}

// Fetch returns the image bytes for a legacy image URL, or nil when no
// image could be resolved. A failed download is never an error, the
// product just stays without an image.
func (f *Fetcher) Fetch(rawURL, legacyID string) []byte {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.EqualFold(rawURL, "nan") {
		return nil
	}

	filename := extractFilename(rawURL)
	localPath := ""

	if f.basePath != "" && legacyID != "" {
		folder := filepath.Join(f.basePath, legacyID)
		localPath = filepath.Join(folder, filename)

		if data, err := os.ReadFile(localPath); err == nil {
			return data
		}
		if data := f.scanCaseInsensitive(folder, filename); data != nil {
			return data
		}
	}

	data := f.download(rawURL, legacyID)
	if data == nil {
		return nil
	}

	if localPath != "" {
		if err := os.MkdirAll(filepath.Dir(localPath), 0755); err == nil {
			if err := os.WriteFile(localPath, data, 0644); err != nil {
				f.logger.Warn("could not cache image locally",
					zap.String("path", localPath), zap.Error(err))
			}
		}
	}
	return data
}

// CachePath returns the local cache location for an image URL, or ""
// when no cache directory is configured
func (f *Fetcher) CachePath(rawURL, legacyID string) string {
	if f.basePath == "" || legacyID == "" {
		return ""
	}
	return filepath.Join(f.basePath, legacyID, extractFilename(rawURL))
}

// scanCaseInsensitive looks for the filename with any casing. The old
// exports mix upper and lower case between the CSV and the files on disk.
func (f *Fetcher) scanCaseInsensitive(folder, filename string) []byte {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), filename) {
			data, err := os.ReadFile(filepath.Join(folder, e.Name()))
			if err == nil {
				return data
			}
		}
	}
	f.logger.Warn("image not found in cache folder",
		zap.String("folder", folder), zap.String("filename", filename))
	return nil
}

func (f *Fetcher) download(rawURL, legacyID string) []byte {
	target := rawURL
	if !strings.HasPrefix(rawURL, "http") {
		cleanPath := strings.ReplaceAll(strings.TrimLeft(rawURL, "."), "//", "/")
		if legacyID != "" && strings.Contains(rawURL, "/product/") {
			cleanPath = strings.ReplaceAll(cleanPath, "/product//", fmt.Sprintf("/product/%s/", legacyID))
		}
		if f.legacySiteURL == "" {
			return nil
		}
		target = f.legacySiteURL + "/" + strings.TrimLeft(cleanPath, "/")
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("image download failed", zap.String("url", target), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK ||
		!strings.Contains(resp.Header.Get("Content-Type"), "image") {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return data
}

// extractFilename derives the on-disk filename from a legacy image URL.
// Dynamic URLs like foto.php?src=/files/product/foto/sde003.jpg carry
// the real name in the src parameter.
func extractFilename(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "unknown.jpg"
	}

	filename := ""
	if src := parsed.Query().Get("src"); src != "" {
		filename = path.Base(src)
	} else {
		filename = path.Base(parsed.Path)
	}

	if len(filename) < 3 {
		return "image.jpg"
	}
	return filename
}
