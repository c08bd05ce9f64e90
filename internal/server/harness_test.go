package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/catalog/internal/app"
	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/models"
	"github.com/bobmcallan/catalog/internal/services/catalog"
	"github.com/bobmcallan/catalog/internal/services/detail"
)

// --- Mocks ---

type mockReader struct {
	mu     sync.Mutex
	sheets map[string]*models.SheetData
	order  []string
	err    error
	calls  atomic.Int64
}

func (m *mockReader) ListSheets(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.order...), nil
}

func (m *mockReader) FetchSheet(_ context.Context, name string) (*models.SheetData, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: no sheet %q", models.ErrHeaderNotFound, name)
	}
	return data, nil
}

func (m *mockReader) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type mockStore struct {
	docs map[string]string // folder/name -> html
	err  error
}

func (m *mockStore) FindDocument(_ context.Context, folderID, name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	key := folderID + "/" + name
	if _, ok := m.docs[key]; !ok {
		return "", fmt.Errorf("%w: %s", models.ErrDocumentNotFound, name)
	}
	return key, nil
}

func (m *mockStore) OpenDocument(_ context.Context, id string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(m.docs[id])), nil
}

// --- Fixtures ---

var testHeader = []string{
	"No", "중분류", "소분류", "상품명", "모델코드", "동일 모델 기준",
	"계약기간", "서비스유형", "서비스주기/월", "정상가", "프로모션명", "프로모션유형", "할인후금액", "선입금여부",
}

func newMockReader() *mockReader {
	return &mockReader{
		order: []string{"정수기", "에어컨"},
		sheets: map[string]*models.SheetData{
			"정수기": {Name: "정수기", Header: testHeader, Rows: [][]string{
				{"1", "정수기", "직수", "퓨어", "X1", "G", "36", "방문", "3", "30,000원", "", "일반", "", "N"},
				{"2", "정수기", "직수", "퓨어", "X1", "G", "36", "방문", "3", "30,000원", "결합할인", "일반", "25,000원", "Y"},
				{"3", "정수기", "냉온", "퓨어 화이트", "X2", "G", "60", "자가", "6", "28,000원", "", "신규", "", "N"},
				{"4", "정수기", "직수", "스탠드", "Y1", "", "36", "방문", "4", "10,000원", "", "일반", "", "N"},
			}},
			"에어컨": {Name: "에어컨", Header: testHeader, Rows: [][]string{
				{"1", "에어컨", "벽걸이", "쿨", "AC-1", "", "60", "방문", "12", "40,000원", "", "일반", "", "N"},
			}},
		},
	}
}

type testEnv struct {
	server *Server
	reader *mockReader
	store  *mockStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()

	reader := newMockReader()
	store := &mockStore{docs: map[string]string{
		config.Detail.Folders["정수기"] + "/X1_detail.html": "<html><body>퓨어 상세</body></html>",
	}}

	cache := catalog.NewSheetCache(reader, logger, catalog.WithTTL(time.Minute))
	a := &app.App{
		Config:         config,
		Logger:         logger,
		SheetReader:    reader,
		DocumentStore:  store,
		Cache:          cache,
		CatalogService: catalog.NewService(reader, cache, config.Catalog.DefaultSheet, 2, logger),
		DetailService:  detail.NewService(store, config.Detail.Folders, logger),
		StartupTime:    time.Now(),
	}

	return &testEnv{server: NewServer(a), reader: reader, store: store}
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}
