package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/catalog/internal/common"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Catalog
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/products", s.handleProducts)
	mux.HandleFunc("/api/products/groups", s.handleProductGroups)
	mux.HandleFunc("/api/products/select", s.handleProductSelect)
	mux.HandleFunc("/api/product-detail", s.handleProductDetail)
	mux.HandleFunc("/api/cache/invalidate", s.handleCacheInvalidate)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.VersionInfo(s.app.Config.Server.Region))
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":           common.GetVersion(),
		"build":             common.GetBuild(),
		"commit":            common.GetGitCommit(),
		"environment":       s.app.Config.Environment,
		"region":            s.app.Config.Server.Region,
		"uptime":            uptime.String(),
		"started_at":        s.app.StartupTime,
		"source":            s.app.Config.Catalog.Source,
		"default_sheet":     s.app.Config.Catalog.DefaultSheet,
		"cache_ttl":         s.app.Config.Catalog.GetCacheTTL().String(),
		"cache":             s.app.CatalogService.CacheStats(),
		"detail_configured": s.app.DocumentStore != nil,
		"detail_categories": s.app.DetailService.Categories(),
	})
}
