package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/corebank/ledger_engine/internal/dto"
	"github.com/corebank/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles money movement and history requests.
type transactionHandler struct {
	transferService portssvc.TransferSvcFacade
	queryService    portssvc.QuerySvcFacade
}

func newTransactionHandler(ts portssvc.TransferSvcFacade, qs portssvc.QuerySvcFacade) *transactionHandler {
	return &transactionHandler{transferService: ts, queryService: qs}
}

// registerTransactionRoutes registers routes related to money movement and
// transaction history.
func registerTransactionRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade, queryService portssvc.QuerySvcFacade) {
	h := newTransactionHandler(transferService, queryService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/withdraw", h.withdraw)
		transactions.POST("/transfer", h.transfer)
		transactions.POST("/transfer/external", h.transferExternal)
		transactions.GET("/:transactionID", h.getTransaction)
	}
	rg.GET("/accounts/:accountNumber/transactions", h.listAccountTransactions)
}

func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_number", req.AccountNumber))
	logger.Info("Received deposit request", slog.String("amount", req.Amount.String()))

	txn, err := h.transferService.Deposit(c.Request.Context(), req.AccountNumber, req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "process deposit")
		return
	}

	logger.Info("Deposit completed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_number", req.AccountNumber))
	logger.Info("Received withdrawal request", slog.String("amount", req.Amount.String()))

	txn, err := h.transferService.Withdraw(c.Request.Context(), req.AccountNumber, req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "process withdrawal")
		return
	}

	logger.Info("Withdrawal completed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("from_account", req.FromAccountNumber),
		slog.String("to_account", req.ToAccountNumber),
	)
	logger.Info("Received transfer request", slog.String("amount", req.Amount.String()))

	txn, err := h.transferService.TransferInternal(c.Request.Context(), req.FromAccountNumber, req.ToAccountNumber, req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "process transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) transferExternal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExternalTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExternalTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("from_account", req.FromAccountNumber))
	logger.Info("Received external transfer request", slog.String("amount", req.Amount.String()))

	txn, err := h.transferService.TransferExternal(c.Request.Context(), req.FromAccountNumber, req.ExternalAccountNumber, req.RoutingCode, req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "process external transfer")
		return
	}

	logger.Info("External transfer completed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.queryService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_id", transactionID)), err, "retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listAccountTransactions returns the account's history, optionally bounded
// by from/to query parameters.
func (h *transactionHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	logger = logger.With(slog.String("account_number", accountNumber))

	if c.Query("from") == "" && c.Query("to") == "" {
		txns, err := h.queryService.ListAccountTransactions(c.Request.Context(), accountNumber)
		if err != nil {
			respondError(c, logger, err, "list transactions")
			return
		}
		c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToListTransactionResponse(txns)})
		return
	}

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for date range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.queryService.ListAccountTransactionsByDateRange(c.Request.Context(), accountNumber, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToListTransactionResponse(txns)})
}
