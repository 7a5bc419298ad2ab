package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	response "assistec/internal/adapter/http/dto/response"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase"
)

// ApprovalHandler serves the public approval page and the approval log.
//
// The public routes are keyed by the opaque token only; nothing in their
// responses identifies the client beyond the display name.
type ApprovalHandler struct {
	usecase usecase.IApprovalUseCase
}

func NewApprovalHandler(uc usecase.IApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{usecase: uc}
}

// GetApproval godoc
// @Summary  Budget behind an approval link
// @Tags     approvals
// @Produce  json
// @Param    token path string true "Approval token"
// @Success  200 {object} response.ApprovalPageResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /approvals/{token} [get]
func (h *ApprovalHandler) GetApproval(c *gin.Context) {
	snap, err := h.usecase.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromApprovalSnapshot(snap))
}

// Approve godoc
// @Summary  Accept the budget
// @Description Repeating the call after success returns 200 with applied=false.
// @Tags     approvals
// @Produce  json
// @Param    token path string true "Approval token"
// @Success  200 {object} response.ApprovalDecisionResponse
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Failure  503 {object} pkg.HTTPError
// @Router   /approvals/{token}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.decide(c, "approve", h.usecase.Approve)
}

// Reject godoc
// @Summary  Decline the budget
// @Tags     approvals
// @Produce  json
// @Param    token path string true "Approval token"
// @Success  200 {object} response.ApprovalDecisionResponse
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Router   /approvals/{token}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.decide(c, "reject", h.usecase.Reject)
}

func (h *ApprovalHandler) decide(c *gin.Context, op string, decision func(ctx context.Context, token string) (usecase.ApprovalResult, error)) {
	result, err := decision(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	if len(result.Warnings) > 0 {
		logger.Warn("decision saved with notification warnings",
			zap.String("op", op),
			zap.Int64("order_number", result.Snapshot.Order.OrderNumber),
			zap.Strings("warnings", result.Warnings),
		)
	}
	c.JSON(http.StatusOK, response.FromApprovalResult(result))
}

func (h *ApprovalHandler) ListApprovals(c *gin.Context) {
	summary, err := h.usecase.ListApprovals(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromApprovalSummary(summary))
}

// DeleteApprovalEntry removes a mistaken approval; the consolidated total
// drops accordingly.
func (h *ApprovalHandler) DeleteApprovalEntry(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.usecase.DeleteApprovalEntry(c.Request.Context(), orderID, c.Param("entry_id")); err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	total, err := h.usecase.ConsolidatedTotal(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"consolidated_total": total})
}
