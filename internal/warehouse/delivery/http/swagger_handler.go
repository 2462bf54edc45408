package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateSession godoc
// @Summary Start a scan session
// @Description Open a new scan session for the authenticated operator
// @Tags Scan
// @Security BearerAuth
// @Produce json
// @Success 201 {object} object{success=bool,data=object{session_id=string,state=object}}
// @Failure 401 {object} object{error=string}
// @Router /api/scan/sessions [post]
func (h *WarehouseHandler) CreateSessionDoc() {}

// GetSession godoc
// @Summary Get scan session state
// @Description Return the current phase and selections of a scan session
// @Tags Scan
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} object{success=bool,data=object{phase=string,item=object,cell=object,reason=string}}
// @Failure 404 {object} object{error=string}
// @Router /api/scan/sessions/{id} [get]
func (h *WarehouseHandler) GetSessionDoc() {}

// ScanItem godoc
// @Summary Scan an item code
// @Description Resolve a scanned color code or fragment to an item and advance the session
// @Tags Scan
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body object{code=string} true "Scanned code"
// @Success 200 {object} object{success=bool,data=object{phase=string,item=object,reason=string}}
// @Failure 404 {object} object{error=string}
// @Router /api/scan/sessions/{id}/item [post]
func (h *WarehouseHandler) ScanItemDoc() {}

// ScanCell godoc
// @Summary Scan a destination cell
// @Description Resolve the cell, run placement checks and execute the transfer
// @Tags Scan
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body object{code=string} true "Scanned cell code"
// @Success 200 {object} object{success=bool,data=object{phase=string,item=object,cell=object,record=object,reason=string}}
// @Failure 404 {object} object{error=string}
// @Router /api/scan/sessions/{id}/cell [post]
func (h *WarehouseHandler) ScanCellDoc() {}

// ConfirmSession godoc
// @Summary Acknowledge the current result
// @Description Dismiss a success or error screen and return to item scanning
// @Tags Scan
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} object{success=bool,data=object{phase=string}}
// @Failure 404 {object} object{error=string}
// @Router /api/scan/sessions/{id}/confirm [post]
func (h *WarehouseHandler) ConfirmSessionDoc() {}

// CancelSession godoc
// @Summary Cancel the scan sequence
// @Description Discard the pending selection and return to item scanning
// @Tags Scan
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} object{success=bool,data=object{phase=string}}
// @Failure 404 {object} object{error=string}
// @Router /api/scan/sessions/{id}/cancel [post]
func (h *WarehouseHandler) CancelSessionDoc() {}

// UpdateCellRange godoc
// @Summary Update cell color range (manager)
// @Description Update a cell's color range bounds and capacity
// @Tags Cells
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Cell ID"
// @Param request body object{color_range_start=string,color_range_end=string,capacity=int} true "Range data"
// @Success 200 {object} object{success=bool,message=string,data=object{warning=string}}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/cells/{id}/range [patch]
func (h *WarehouseHandler) UpdateCellRangeDoc() {}

// ListTransfers godoc
// @Summary List transfer history
// @Description List recorded transfers, optionally filtered by item
// @Tags Transfers
// @Security BearerAuth
// @Produce json
// @Param item_id query int false "Item ID filter"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{error=string}
// @Router /api/transfers [get]
func (h *WarehouseHandler) ListTransfersDoc() {}

// GetOccupancy godoc
// @Summary Shelf occupancy report
// @Description Aggregate cell counts and capacities per shelf
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{error=string}
// @Router /api/occupancy [get]
func (h *WarehouseHandler) GetOccupancyDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *WarehouseHandler) HealthCheckDoc() {}
