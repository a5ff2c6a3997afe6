package server

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/navinject/internal/nav"
	"github.com/ziadkadry99/navinject/internal/page"
)

// siteHandler serves files from the site directory, injecting navigation
// into HTML pages. Every HTML response is a fresh page load.
type siteHandler struct {
	root     string
	basePath string
	injector *nav.Injector
	logger   *zap.Logger
}

func newSiteHandler(root, basePath string, injector *nav.Injector, logger *zap.Logger) *siteHandler {
	base := strings.TrimRight(basePath, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return &siteHandler{root: root, basePath: base, injector: injector, logger: logger}
}

func (h *siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	rel := urlPath
	if h.basePath != "" {
		if urlPath != h.basePath && !strings.HasPrefix(urlPath, h.basePath+"/") {
			http.NotFound(w, r)
			return
		}
		rel = strings.TrimPrefix(urlPath, h.basePath)
	}
	rel = path.Clean("/" + rel)
	file := filepath.Join(h.root, filepath.FromSlash(rel))

	info, err := os.Stat(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		if !strings.HasSuffix(urlPath, "/") {
			http.Redirect(w, r, urlPath+"/", http.StatusMovedPermanently)
			return
		}
		file = filepath.Join(file, h.injector.Options().Links.RootFile)
		if _, err := os.Stat(file); err != nil {
			http.NotFound(w, r)
			return
		}
	}

	if !isHTML(file) {
		http.ServeFile(w, r, file)
		return
	}
	h.servePage(w, r, file)
}

func (h *siteHandler) servePage(w http.ResponseWriter, r *http.Request, file string) {
	data, err := os.ReadFile(file)
	if err != nil {
		http.Error(w, "failed to read page", http.StatusInternalServerError)
		return
	}

	out := data
	doc, err := page.ParseBytes(data)
	if err == nil {
		_, err = h.injector.Load(r.Context(), r.URL.Path, doc)
		switch {
		case err == nil:
			if rendered, rerr := doc.Bytes(); rerr == nil {
				out = rendered
			} else {
				h.logger.Warn("render page", zap.String("page", r.URL.Path), zap.Error(rerr))
			}
		case errors.Is(err, page.ErrPlaceholderNotFound):
			// Pages without a placeholder are served untouched.
		default:
			h.logger.Warn("inject page", zap.String("page", r.URL.Path), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func isHTML(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	return ext == ".html" || ext == ".htm"
}

// handleFragment returns the markup the placeholder would receive on the
// page named by the "path" query parameter.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("path")
	if current == "" {
		current = "/"
	}

	body, res, err := s.injector.Render(r.Context(), current)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Navinject-Kind", string(res.Kind))
	w.Header().Set("X-Navinject-Fragment", res.FragmentPath)

	if err != nil {
		s.logger.Error("navigation fragment unavailable",
			zap.String("page", current),
			zap.String("fragment", res.FragmentPath),
			zap.Error(err),
		)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(body))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
