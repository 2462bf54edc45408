package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/internal/warehouse/scan"
	"github.com/renkteks/kartela/internal/warehouse/usecase/command"
	"github.com/renkteks/kartela/internal/warehouse/usecase/query"
)

type stubItemRepo struct {
	mu    sync.Mutex
	items []domain.Item
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			copied := s.items[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (s *stubItemRepo) FindByCode(ctx context.Context, code string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Code == code {
			copied := s.items[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (s *stubItemRepo) FindByColorCodeContains(ctx context.Context, fragment string) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []domain.Item
	for i := range s.items {
		if strings.Contains(s.items[i].ColorCode, fragment) {
			matches = append(matches, s.items[i])
		}
	}
	return matches, nil
}

func (s *stubItemRepo) UpdatePlacement(ctx context.Context, itemID, cellID uint, cellCode string, userID uint, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].CurrentCellID = &cellID
			s.items[i].CurrentCellCode = cellCode
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (s *stubItemRepo) CountByCellID(ctx context.Context, cellID uint) (int64, error) { return 0, nil }

type stubCellRepo struct {
	mu    sync.Mutex
	cells []domain.Cell
}

func (s *stubCellRepo) FindByID(ctx context.Context, id uint) (*domain.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		if s.cells[i].ID == id {
			copied := s.cells[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrCellNotFound
}

func (s *stubCellRepo) FindByCode(ctx context.Context, code string) (*domain.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		if s.cells[i].Code == code {
			copied := s.cells[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrCellNotFound
}

func (s *stubCellRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Cell, error) {
	return nil, nil
}

func (s *stubCellRepo) AdjustCount(ctx context.Context, cellID uint, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		if s.cells[i].ID == cellID {
			s.cells[i].CurrentCount += delta
			return nil
		}
	}
	return domain.ErrCellNotFound
}

func (s *stubCellRepo) OccupyOne(ctx context.Context, cellID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		if s.cells[i].ID == cellID {
			if s.cells[i].CurrentCount >= s.cells[i].Capacity {
				return domain.ErrCellFull
			}
			s.cells[i].CurrentCount++
			return nil
		}
	}
	return domain.ErrCellNotFound
}

func (s *stubCellRepo) UpdateRange(ctx context.Context, cellID uint, start, end *string, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		if s.cells[i].ID == cellID {
			s.cells[i].ColorRangeStart = start
			s.cells[i].ColorRangeEnd = end
			s.cells[i].Capacity = capacity
			return nil
		}
	}
	return domain.ErrCellNotFound
}

type stubTransferRepo struct {
	mu      sync.Mutex
	records []domain.TransferRecord
}

func (s *stubTransferRepo) Append(ctx context.Context, record *domain.TransferRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = uint(len(s.records) + 1)
	s.records = append(s.records, *record)
	return nil
}

func (s *stubTransferRepo) FindByItemID(ctx context.Context, itemID uint, limit, offset int) ([]domain.TransferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TransferRecord
	for _, r := range s.records {
		if r.ItemID == itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubTransferRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.TransferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TransferRecord(nil), s.records...), nil
}

type stubHierarchyRepo struct {
	summary []domain.ShelfOccupancy
}

func (s *stubHierarchyRepo) FindShelfByID(ctx context.Context, id uint) (*domain.Shelf, error) {
	return nil, domain.ErrCellNotFound
}

func (s *stubHierarchyRepo) OccupancySummary(ctx context.Context) ([]domain.ShelfOccupancy, error) {
	return s.summary, nil
}

func newTestHandler() (*WarehouseHandler, *stubCellRepo, *stubTransferRepo) {
	items := &stubItemRepo{items: []domain.Item{
		{ID: 1, Code: "7705", ColorCode: "7705", Status: domain.ItemStatusActive},
	}}
	cells := &stubCellRepo{cells: []domain.Cell{
		{ID: 10, Code: "A-01", Capacity: 5, CurrentCount: 0, Active: true},
	}}
	transfers := &stubTransferRepo{}

	registry := scan.NewRegistry(
		query.NewResolveItemHandler(items),
		query.NewLookupCellHandler(cells),
		command.NewTransferItemHandler(items, cells, transfers, nil),
		scan.SystemClock(),
		nil,
	)

	handler := NewWarehouseHandler(
		registry,
		command.NewUpdateCellRangeHandler(cells),
		query.NewListTransfersHandler(transfers),
		query.NewOccupancyReportHandler(&stubHierarchyRepo{summary: []domain.ShelfOccupancy{
			{ShelfID: 1, ShelfCode: "S-01", Cells: 4, Capacity: 20, Occupied: 3},
		}}),
	)
	return handler, cells, transfers
}

func asOperator(r *http.Request) *http.Request {
	r.Header.Set("X-User-ID", "7")
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func createSession(t *testing.T, h *WarehouseHandler) string {
	t.Helper()
	req := asOperator(httptest.NewRequest(http.MethodPost, "/api/scan/sessions", nil))
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	sessionID, _ := data["session_id"].(string)
	if sessionID == "" {
		t.Fatal("create session: missing session_id")
	}
	return sessionID
}

func postScan(t *testing.T, handle http.HandlerFunc, sessionID, code string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"code": code})
	req := asOperator(httptest.NewRequest(http.MethodPost, "/ignored", bytes.NewReader(body)))
	req = mux.SetURLVars(req, map[string]string{"id": sessionID})
	rec := httptest.NewRecorder()
	handle(rec, req)
	return rec, decodeResponse(t, rec)
}

func TestCreateSession_RequiresOperator(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/scan/sessions", nil)
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetSession_Unknown(t *testing.T) {
	h, _, _ := newTestHandler()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/ignored", nil), map[string]string{"id": "no-such"})
	rec := httptest.NewRecorder()
	h.GetSession(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestScanFlow_EndToEnd(t *testing.T) {
	h, cells, transfers := newTestHandler()
	sessionID := createSession(t, h)

	rec, resp := postScan(t, h.ScanItem, sessionID, "7705")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("item scan failed: code %d, success %v, error %q", rec.Code, resp.Success, resp.Error)
	}

	rec, resp = postScan(t, h.ScanCell, sessionID, "A-01")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("cell scan failed: code %d, success %v, error %q", rec.Code, resp.Success, resp.Error)
	}
	state, ok := resp.Data.(map[string]interface{})
	if !ok || state["phase"] != string(scan.PhaseSuccess) {
		t.Fatalf("expected success phase in response, got %v", resp.Data)
	}

	if got := cells.cells[0].CurrentCount; got != 1 {
		t.Errorf("destination count: expected 1, got %d", got)
	}
	if len(transfers.records) != 1 {
		t.Errorf("expected 1 transfer record, got %d", len(transfers.records))
	}
}

func TestScanItem_UnknownCodeReportsError(t *testing.T) {
	h, _, _ := newTestHandler()
	sessionID := createSession(t, h)

	rec, resp := postScan(t, h.ScanItem, sessionID, "no-such-color")
	if rec.Code != http.StatusOK {
		t.Fatalf("scan events always answer 200, got %d", rec.Code)
	}
	if resp.Success {
		t.Fatal("unknown item must report success=false")
	}
	state, ok := resp.Data.(map[string]interface{})
	if !ok || state["phase"] != string(scan.PhaseError) {
		t.Fatalf("expected error phase, got %v", resp.Data)
	}
}

func TestScanItem_UnknownSession(t *testing.T) {
	h, _, _ := newTestHandler()

	rec, _ := postScan(t, h.ScanItem, "no-such", "7705")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCancelSession_ReturnsToAwaitingItem(t *testing.T) {
	h, _, _ := newTestHandler()
	sessionID := createSession(t, h)

	postScan(t, h.ScanItem, sessionID, "7705")

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/ignored", nil), map[string]string{"id": sessionID})
	rec := httptest.NewRecorder()
	h.CancelSession(rec, req)

	resp := decodeResponse(t, rec)
	state, ok := resp.Data.(map[string]interface{})
	if !ok || state["phase"] != string(scan.PhaseAwaitingItem) {
		t.Fatalf("expected awaiting_item after cancel, got %v", resp.Data)
	}
}

func patchRange(t *testing.T, h *WarehouseHandler, cellID string, body map[string]interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPatch, "/ignored", bytes.NewReader(raw))
	req = mux.SetURLVars(req, map[string]string{"id": cellID})
	rec := httptest.NewRecorder()
	h.UpdateCellRange(rec, req)
	return rec, decodeResponse(t, rec)
}

func TestUpdateCellRange_Saves(t *testing.T) {
	h, cells, _ := newTestHandler()

	rec, resp := patchRange(t, h, "10", map[string]interface{}{
		"color_range_start": "7700",
		"color_range_end":   "7799",
		"capacity":          40,
	})
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("expected 200 success, got %d (%s)", rec.Code, resp.Error)
	}

	cell := cells.cells[0]
	if cell.Capacity != 40 || cell.ColorRangeStart == nil || *cell.ColorRangeStart != "7700" {
		t.Errorf("range not persisted: %+v", cell)
	}
}

func TestUpdateCellRange_InvertedRangeRejected(t *testing.T) {
	h, _, _ := newTestHandler()

	rec, _ := patchRange(t, h, "10", map[string]interface{}{
		"color_range_start": "9",
		"color_range_end":   "10",
		"capacity":          40,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateCellRange_UnknownCell(t *testing.T) {
	h, _, _ := newTestHandler()

	rec, _ := patchRange(t, h, "999", map[string]interface{}{"capacity": 40})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateCellRange_SoftCeilingWarns(t *testing.T) {
	h, _, _ := newTestHandler()

	rec, resp := patchRange(t, h, "10", map[string]interface{}{"capacity": 600})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if warning, _ := data["warning"].(string); warning == "" {
		t.Error("expected a capacity warning in the response")
	}
}

func TestListTransfers_ReturnsRecords(t *testing.T) {
	h, _, transfers := newTestHandler()
	transfers.Append(context.Background(), &domain.TransferRecord{
		ItemID: 1, ItemCode: "7705", ToCellCode: "A-01", UserID: 7,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transfers?limit=10", nil)
	rec := httptest.NewRecorder()
	h.ListTransfers(rec, req)

	resp := decodeResponse(t, rec)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("expected 200 success, got %d", rec.Code)
	}
	records, ok := resp.Data.([]interface{})
	if !ok || len(records) != 1 {
		t.Fatalf("expected 1 record, got %v", resp.Data)
	}
}

func TestGetOccupancy_ReturnsSummary(t *testing.T) {
	h, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/occupancy", nil)
	rec := httptest.NewRecorder()
	h.GetOccupancy(rec, req)

	resp := decodeResponse(t, rec)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("expected 200 success, got %d", rec.Code)
	}
	rows, ok := resp.Data.([]interface{})
	if !ok || len(rows) != 1 {
		t.Fatalf("expected 1 shelf row, got %v", resp.Data)
	}
}
