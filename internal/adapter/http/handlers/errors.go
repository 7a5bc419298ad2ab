package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assistec/internal/pkg/logger"
	"assistec/internal/usecase"
	"assistec/pkg"
)

// ActorIDKey is the gin context key holding the authenticated admin id.
const ActorIDKey = "actorId"

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errInvalidAmount  = pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Amounts must be finite and non-negative", http.StatusBadRequest)
)

// mapOrderError maps use-case errors of the order lifecycle. Specific
// sentinels are checked before the taxonomy roots.
func mapOrderError(err error) *pkg.AppError {
	var perr *usecase.PersistenceError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return pkg.NewDomainError("REQUEST_TIMEOUT", "The request took too long, try again", err, http.StatusServiceUnavailable)
	case errors.As(err, &perr):
		return pkg.NewDomainError("PERSISTENCE_FAILED", "The change could not be saved, try again", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrConcurrentUpdate):
		return pkg.NewDomainErrorSimple("CONCURRENT_UPDATE", "The order changed while saving, try again", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return pkg.NewDomainErrorSimple("INVALID_STATUS", "Unknown order status", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidAmount):
		return errInvalidAmount
	case errors.Is(err, usecase.ErrConfirmationRequired):
		return pkg.NewDomainErrorSimple("CONFIRMATION_REQUIRED", "Deletion must be confirmed", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrValidation):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Service order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return pkg.NewDomainErrorSimple("PROFILE_NOT_FOUND", "Client not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrApprovalNotFound):
		return pkg.NewDomainErrorSimple("APPROVAL_NOT_FOUND", "Approval link is invalid or expired", http.StatusNotFound)
	case errors.Is(err, usecase.ErrApprovalEntryNotFound):
		return pkg.NewDomainErrorSimple("APPROVAL_ENTRY_NOT_FOUND", "Approval entry not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBudgetAlreadyApproved):
		return pkg.NewDomainErrorSimple("BUDGET_ALREADY_APPROVED", "Budget already approved", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotAwaitingDecision):
		return pkg.NewDomainErrorSimple("NOT_AWAITING_APPROVAL", "Budget is not awaiting a decision", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotFound):
		return pkg.NewDomainErrorSimple("NOT_FOUND", "Resource not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// actorID returns the admin id set by the auth middleware, if any.
func actorID(c *gin.Context) *string {
	v := c.GetString(ActorIDKey)
	if v == "" {
		return nil
	}
	return &v
}
