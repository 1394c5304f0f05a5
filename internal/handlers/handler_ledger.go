package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers ledger and settlement routes. Adjustments
// are admin-only and enforced by the service.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.GET("/projects/:projectID/ledger", h.listLedger)
	rg.POST("/projects/:projectID/ledger/adjustments", h.recordAdjustment)
	rg.POST("/settlements/preview", h.previewSettlement)
}

// listLedger godoc
// @Summary List a project's ledger entries
// @Description Entries are returned oldest first; pass nextToken to continue
// @Tags ledger
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLedgerResponse
// @Security BearerAuth
// @Router /projects/{projectID}/ledger [get]
func (h *ledgerHandler) listLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	page, err := h.ledgerService.ListProjectLedger(c.Request.Context(), actor, c.Param("projectID"), params)
	if err != nil {
		respondError(c, err, "to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// recordAdjustment godoc
// @Summary Append a correcting ledger entry
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   adjustment body dto.RecordAdjustmentRequest true "Adjustment"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 409 {object} map[string]string "Idempotency key already used"
// @Security BearerAuth
// @Router /projects/{projectID}/ledger/adjustments [post]
func (h *ledgerHandler) recordAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordAdjustmentRequest
	if !bindJSON(c, &req, "RecordAdjustment") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Admin-only; the service enforces it
	entry, err := h.ledgerService.RecordAdjustment(c.Request.Context(), actor, c.Param("projectID"), req)
	if err != nil {
		respondError(c, err, "to record adjustment")
		return
	}

	logger.Info("Ledger adjustment recorded", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

func (h *ledgerHandler) previewSettlement(c *gin.Context) {
	var req dto.SettlementPreviewRequest
	if !bindJSON(c, &req, "PreviewSettlement") {
		return
	}

	// Pure computation, nothing is written
	breakdown, err := h.ledgerService.PreviewSettlement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "to preview settlement")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
