package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/corebank/ledger_engine/internal/apperrors"
	portssvc "github.com/corebank/ledger_engine/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var accountNumberPattern = regexp.MustCompile(`^[1-9][0-9]{9}$`)

// RegisterRoutes sets up all application routes, injecting dependencies using
// the service facades.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	registerValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")
	registerAccountRoutes(v1, services.Account)
	registerTransactionRoutes(v1, services.Transfer, services.Query)
	registerAuditRoutes(v1, services.Query)
}

// registerValidators installs the custom binding validators. Ledger account
// numbers are 10 digits with a non-zero leading digit.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("acctnum", func(fl validator.FieldLevel) bool {
			return accountNumberPattern.MatchString(fl.Field().String())
		})
	}
}

// respondError translates service errors into HTTP responses.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrSameAccount),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
