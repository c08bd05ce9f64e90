package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/catalog/internal/models"
)

// --- Mocks ---

type mockSheetReader struct {
	mu      sync.Mutex
	sheets  map[string]*models.SheetData
	errs    map[string]error
	names   []string
	listErr error
	calls   atomic.Int64
	delay   time.Duration
	gate    chan struct{} // when set, FetchSheet blocks until closed
}

func newMockReader() *mockSheetReader {
	return &mockSheetReader{
		sheets: make(map[string]*models.SheetData),
		errs:   make(map[string]error),
	}
}

func (m *mockSheetReader) set(name string, header []string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[name] = &models.SheetData{Name: name, Header: header, Rows: rows}
	m.names = append(m.names, name)
}

func (m *mockSheetReader) fail(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[name] = err
}

func (m *mockSheetReader) ListSheets(_ context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...), nil
}

func (m *mockSheetReader) FetchSheet(ctx context.Context, name string) (*models.SheetData, error) {
	m.calls.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	data, ok := m.sheets[name]
	if !ok {
		return nil, models.ErrHeaderNotFound
	}
	return data, nil
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- Fixtures ---

var planHeader = []string{
	"No", "중분류", "소분류", "상품명", "모델코드", "동일 모델 기준",
	"계약기간", "서비스유형", "서비스주기/월", "정상가", "프로모션명", "프로모션유형",
	"할인후금액", "선입금여부",
}

func plan(no, middle, sub, name, code, same, contract, svc, cycle, list, promoName, promoType, discounted, prepay string) []string {
	return []string{no, middle, sub, name, code, same, contract, svc, cycle, list, promoName, promoType, discounted, prepay}
}
