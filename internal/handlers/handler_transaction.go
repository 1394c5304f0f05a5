package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for manually recorded cash movements.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	rg.GET("/projects/:projectID/transactions", h.listTransactions)
	rg.POST("/projects/:projectID/transactions", h.recordTransaction)
	rg.GET("/transactions/:transactionID", h.getTransaction)
}

// recordTransaction godoc
// @Summary Record a manual transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   transaction body dto.RecordTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]any "Validation failed"
// @Security BearerAuth
// @Router /projects/{projectID}/transactions [post]
func (h *transactionHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransactionRequest
	if !bindJSON(c, &req, "RecordTransaction") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Manual bookkeeping, kept apart from the settlement ledger
	txn, err := h.transactionService.RecordTransaction(c.Request.Context(), actor, c.Param("projectID"), req)
	if err != nil {
		respondError(c, err, "to record transaction")
		return
	}

	logger.Info("Transaction recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a project's transactions
// @Tags transactions
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /projects/{projectID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	page, err := h.transactionService.ListProjectTransactions(c.Request.Context(), actor, c.Param("projectID"), params)
	if err != nil {
		respondError(c, err, "to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), actor, c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
