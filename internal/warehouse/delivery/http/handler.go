package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/internal/warehouse/scan"
	"github.com/renkteks/kartela/internal/warehouse/usecase/command"
	"github.com/renkteks/kartela/internal/warehouse/usecase/query"
	"github.com/renkteks/kartela/pkg/logger"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_service_requests_total",
			Help: "Total number of requests to the warehouse service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_service_request_duration_seconds",
			Help:    "Duration of warehouse service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	scanOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_scan_outcomes_total",
			Help: "Scan sequence outcomes by resulting phase",
		},
		[]string{"event", "phase"},
	)
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(scanOutcomes)
}

// WarehouseHandler handles HTTP requests for the transfer engine
type WarehouseHandler struct {
	sessions      *scan.Registry
	rangeHandler  *command.UpdateCellRangeHandler
	listTransfers *query.ListTransfersHandler
	occupancy     *query.OccupancyReportHandler
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(
	sessions *scan.Registry,
	rangeHandler *command.UpdateCellRangeHandler,
	listTransfers *query.ListTransfersHandler,
	occupancy *query.OccupancyReportHandler,
) *WarehouseHandler {
	return &WarehouseHandler{
		sessions:      sessions,
		rangeHandler:  rangeHandler,
		listTransfers: listTransfers,
		occupancy:     occupancy,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// actingUser resolves the operator identity from the auth context,
// falling back to the header injected by the gateway
func actingUser(r *http.Request) (uint, bool) {
	if id, ok := r.Context().Value(UserIDKey).(uint); ok && id != 0 {
		return id, true
	}
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CreateSession handles POST /api/scan/sessions
func (h *WarehouseHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing operator identity"})
		return
	}

	sessionID := scan.NewSessionID()
	machine := h.sessions.Machine(sessionID, userID)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Scan session created",
		Data: map[string]interface{}{
			"session_id": sessionID,
			"state":      machine.Current(),
		},
	})
}

// GetSession handles GET /api/scan/sessions/{id}
func (h *WarehouseHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	machine, ok := h.sessions.Lookup(mux.Vars(r)["id"])
	if !ok {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Unknown scan session"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: machine.Current()})
}

// ScanItem handles POST /api/scan/sessions/{id}/item
func (h *WarehouseHandler) ScanItem(w http.ResponseWriter, r *http.Request) {
	h.scanEvent(w, r, "item", func(m *scan.Machine, code string) scan.State {
		return m.ScanItem(r.Context(), code)
	})
}

// ScanCell handles POST /api/scan/sessions/{id}/cell
func (h *WarehouseHandler) ScanCell(w http.ResponseWriter, r *http.Request) {
	h.scanEvent(w, r, "cell", func(m *scan.Machine, code string) scan.State {
		return m.ScanCell(r.Context(), code)
	})
}

func (h *WarehouseHandler) scanEvent(w http.ResponseWriter, r *http.Request, event string, apply func(*scan.Machine, string) scan.State) {
	machine, ok := h.sessions.Lookup(mux.Vars(r)["id"])
	if !ok {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Unknown scan session"})
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	state := apply(machine, req.Code)
	scanOutcomes.WithLabelValues(event, string(state.Phase)).Inc()

	respondJSON(w, http.StatusOK, Response{Success: state.Phase != scan.PhaseError, Data: state})
}

// ConfirmSession handles POST /api/scan/sessions/{id}/confirm
func (h *WarehouseHandler) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	machine, ok := h.sessions.Lookup(mux.Vars(r)["id"])
	if !ok {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Unknown scan session"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: machine.Confirm()})
}

// CancelSession handles POST /api/scan/sessions/{id}/cancel
func (h *WarehouseHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	machine, ok := h.sessions.Lookup(mux.Vars(r)["id"])
	if !ok {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Unknown scan session"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: machine.Cancel()})
}

// UpdateCellRange handles PATCH /api/cells/{id}/range
func (h *WarehouseHandler) UpdateCellRange(w http.ResponseWriter, r *http.Request) {
	cellID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid cell ID"})
		return
	}

	var req struct {
		ColorRangeStart *string `json:"color_range_start"`
		ColorRangeEnd   *string `json:"color_range_end"`
		Capacity        int     `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	warning, err := h.rangeHandler.Handle(r.Context(), command.UpdateCellRangeCommand{
		CellID:          uint(cellID),
		ColorRangeStart: req.ColorRangeStart,
		ColorRangeEnd:   req.ColorRangeEnd,
		Capacity:        req.Capacity,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrCellNotFound) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cell range updated",
		Data:    map[string]string{"warning": warning},
	})
}

// ListTransfers handles GET /api/transfers
func (h *WarehouseHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	itemID, _ := strconv.ParseUint(r.URL.Query().Get("item_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.listTransfers.Handle(r.Context(), query.ListTransfersQuery{
		ItemID: uint(itemID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list transfers")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list transfers"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: records})
}

// GetOccupancy handles GET /api/occupancy
func (h *WarehouseHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	summary, err := h.occupancy.Handle(r.Context())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to build occupancy report")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to build occupancy report"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: summary})
}

// RegisterRoutes registers all warehouse routes
func (h *WarehouseHandler) RegisterRoutes(router *mux.Router) {
	// Scan terminal routes
	router.HandleFunc("/api/scan/sessions", h.metricsMiddleware("/api/scan/sessions", AuthMiddleware(h.CreateSession))).Methods("POST")
	router.HandleFunc("/api/scan/sessions/{id}", h.metricsMiddleware("/api/scan/sessions/{id}", AuthMiddleware(h.GetSession))).Methods("GET")
	router.HandleFunc("/api/scan/sessions/{id}/item", h.metricsMiddleware("/api/scan/sessions/{id}/item", AuthMiddleware(h.ScanItem))).Methods("POST")
	router.HandleFunc("/api/scan/sessions/{id}/cell", h.metricsMiddleware("/api/scan/sessions/{id}/cell", AuthMiddleware(h.ScanCell))).Methods("POST")
	router.HandleFunc("/api/scan/sessions/{id}/confirm", h.metricsMiddleware("/api/scan/sessions/{id}/confirm", AuthMiddleware(h.ConfirmSession))).Methods("POST")
	router.HandleFunc("/api/scan/sessions/{id}/cancel", h.metricsMiddleware("/api/scan/sessions/{id}/cancel", AuthMiddleware(h.CancelSession))).Methods("POST")

	// Reporting routes
	router.HandleFunc("/api/transfers", h.metricsMiddleware("/api/transfers", AuthMiddleware(h.ListTransfers))).Methods("GET")
	router.HandleFunc("/api/occupancy", h.metricsMiddleware("/api/occupancy", AuthMiddleware(h.GetOccupancy))).Methods("GET")

	// Manager routes
	router.HandleFunc("/api/cells/{id}/range", h.metricsMiddleware("/api/cells/{id}/range", ManagerMiddleware(h.UpdateCellRange))).Methods("PATCH")
}

// RegisterHealthCheck registers the health check endpoint
func (h *WarehouseHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Warehouse service is healthy"})
	}).Methods("GET")
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps a handler with the request counter and latency histogram
func (h *WarehouseHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
