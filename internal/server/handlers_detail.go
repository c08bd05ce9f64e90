package server

import (
	"io"
	"net/http"
)

// handleProductDetail handles GET /api/product-detail, streaming the stored
// HTML document for a product.
func (s *Server) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !RequireParams(w, r, "middle", "id") {
		return
	}

	middle := QueryParam(r, "middle")
	id := QueryParam(r, "id")

	body, err := s.app.DetailService.Resolve(r.Context(), middle, id)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if n, err := io.Copy(w, body); err != nil {
		// Headers are already sent; the client sees a truncated body
		s.logger.Warn().
			Str("middle", middle).
			Str("id", id).
			Int64("bytes", n).
			Err(err).
			Msg("Detail document stream interrupted")
	}
}
