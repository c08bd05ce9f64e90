package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/catalog/internal/models"
)

func TestProductDetail_StreamsHTML(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/product-detail?middle="+url.QueryEscape("정수기")+"&id=X1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html><body>퓨어 상세</body></html>", rec.Body.String())
}

func TestProductDetail_UnknownCategoryIs404WithName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/product-detail?middle="+url.QueryEscape("세탁기")+"&id=X1")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Error, "세탁기")
}

func TestProductDetail_MissingDocumentIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/product-detail?middle="+url.QueryEscape("정수기")+"&id=ZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDetail_MissingParams(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/product-detail?id=X1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "middle")

	rec = env.do(t, http.MethodGet, "/api/product-detail?middle="+url.QueryEscape("정수기"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "id")
}

func TestProductDetail_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = fmt.Errorf("%w: drive 503", models.ErrUpstreamUnavailable)

	rec := env.do(t, http.MethodGet, "/api/product-detail?middle="+url.QueryEscape("정수기")+"&id=X1")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "upstream unavailable", body.Error)
	assert.Contains(t, body.Detail, "drive 503")
}
