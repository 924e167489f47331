package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/dto"
	"github.com/corebank/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler exposes the mirrored audit log.
type auditHandler struct {
	queryService portssvc.QuerySvcFacade
}

func newAuditHandler(qs portssvc.QuerySvcFacade) *auditHandler {
	return &auditHandler{queryService: qs}
}

// registerAuditRoutes registers routes related to the audit mirror.
func registerAuditRoutes(rg *gin.RouterGroup, queryService portssvc.QuerySvcFacade) {
	h := newAuditHandler(queryService)

	audit := rg.Group("/audit")
	{
		audit.GET("", h.listEntries)
		audit.GET("/accounts/:accountNumber", h.listEntriesByAccount)
	}
}

func (h *auditHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.queryService.ListAuditEntries(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "read audit log")
		return
	}

	c.JSON(http.StatusOK, dto.ListAuditEntriesResponse{Entries: dto.ToListAuditEntryResponse(entries)})
}

// listEntriesByAccount returns the account's mirrored records, optionally
// bounded by from/to query parameters in the audit timestamp layout.
func (h *auditHandler) listEntriesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	logger = logger.With(slog.String("account_number", accountNumber))

	if c.Query("from") == "" && c.Query("to") == "" {
		entries, err := h.queryService.ListAuditEntriesByAccount(c.Request.Context(), accountNumber)
		if err != nil {
			respondError(c, logger, err, "read audit log")
			return
		}
		c.JSON(http.StatusOK, dto.ListAuditEntriesResponse{Entries: dto.ToListAuditEntryResponse(entries)})
		return
	}

	var params dto.AuditDateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for audit date range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.queryService.ListAuditEntriesByDateRange(c.Request.Context(), accountNumber, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "read audit log")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditEntriesResponse{Entries: dto.ToListAuditEntryResponse(entries)})
}
