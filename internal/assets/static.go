// Package assets serves the built site: pages, bundles and main.wasm.
package assets

import (
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/zeebo/blake3"

	"github.com/arcup/arcup-web/logging"
)

// NotFoundPage is served with status 404 when present in the root.
const NotFoundPage = "404.html"

// immutablePrefix holds content-hashed bundles that never change in place.
const immutablePrefix = "/_astro/"

func init() {
	_ = mime.AddExtensionType(".wasm", "application/wasm")
}

type etagEntry struct {
	modTime time.Time
	size    int64
	tag     string
}

type handler struct {
	root   string
	logger *logging.Logger

	mu    sync.Mutex
	etags map[string]etagEntry
}

// NewHandler serves files under root with gzip and content-hash ETags.
// "/about" resolves to about/index.html or about.html, like the static host.
func NewHandler(root string, logger *logging.Logger) (http.Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve static directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("static directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory %s is not a directory", abs)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	h := &handler{root: abs, logger: logger, etags: make(map[string]etagEntry)}
	return gzhttp.GzipHandler(h), nil
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	file, ok := h.resolve(urlPath)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.serveFile(w, r, file, urlPath, http.StatusOK)
}

// resolve maps a clean URL path to a regular file under the root.
func (h *handler) resolve(urlPath string) (string, bool) {
	rel := filepath.FromSlash(strings.TrimPrefix(urlPath, "/"))
	base := filepath.Join(h.root, rel)
	candidates := []string{base, filepath.Join(base, "index.html")}
	if !strings.HasSuffix(urlPath, "/") && filepath.Ext(base) == "" {
		candidates = append(candidates, base+".html")
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	page := filepath.Join(h.root, NotFoundPage)
	if info, err := os.Stat(page); err == nil && info.Mode().IsRegular() {
		h.serveFile(w, r, page, "/"+NotFoundPage, http.StatusNotFound)
		return
	}
	http.NotFound(w, r)
}

func (h *handler) serveFile(w http.ResponseWriter, r *http.Request, file, urlPath string, status int) {
	f, err := os.Open(file)
	if err != nil {
		h.logger.Error("assets", "open failed", err, map[string]any{"path": urlPath})
		http.Error(w, "unable to read file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "unable to read file", http.StatusInternalServerError)
		return
	}

	if ctype := mime.TypeByExtension(filepath.Ext(file)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	w.Header().Set("Cache-Control", cacheControl(urlPath, file))

	if status != http.StatusOK {
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_, _ = io.Copy(w, f)
		}
		return
	}

	tag, err := h.etag(file, info, f)
	if err != nil {
		h.logger.Error("assets", "hash failed", err, map[string]any{"path": urlPath})
		http.Error(w, "unable to read file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("ETag", tag)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// etag returns a blake3 content hash, cached until the file's size or mtime
// changes. f is rewound before returning.
func (h *handler) etag(file string, info os.FileInfo, f io.ReadSeeker) (string, error) {
	h.mu.Lock()
	entry, ok := h.etags[file]
	h.mu.Unlock()
	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.tag, nil
	}

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	sum := hasher.Sum(nil)
	tag := `"` + hex.EncodeToString(sum[:16]) + `"`

	h.mu.Lock()
	h.etags[file] = etagEntry{modTime: info.ModTime(), size: info.Size(), tag: tag}
	h.mu.Unlock()
	return tag, nil
}

func cacheControl(urlPath, file string) string {
	switch {
	case strings.HasPrefix(urlPath, immutablePrefix):
		return "public, max-age=31536000, immutable"
	case filepath.Ext(file) == ".html":
		return "no-cache"
	default:
		return "public, max-age=3600"
	}
}
