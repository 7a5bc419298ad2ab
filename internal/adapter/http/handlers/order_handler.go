package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	request "assistec/internal/adapter/http/dto/request"
	response "assistec/internal/adapter/http/dto/response"
	"assistec/internal/domain/entities"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase"
)

// OrderHandler serves the back-office routes of a service order.
type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder godoc
// @Summary  Open a service order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body request.CreateOrderRequest true "Order"
// @Success  201 {object} response.OrderResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	order, err := h.usecase.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		ClientID:            payload.ClientID,
		Equipment:           payload.Equipment,
		Brand:               payload.Brand,
		Model:               payload.Model,
		SerialNumber:        payload.SerialNumber,
		ReportedIssue:       payload.ReportedIssue,
		EstimatedCompletion: payload.EstimatedCompletion,
		ActorID:             actorID(c),
	})
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromServiceOrder(order))
}

// GetOrder godoc
// @Summary  Order with client, items, history and approvals
// @Tags     orders
// @Produce  json
// @Param    id path string true "Order ID"
// @Success  200 {object} response.OrderDetailsResponse
// @Failure  404 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	details, err := h.usecase.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrderDetails(details))
}

// DeleteOrder godoc
// @Summary  Delete an order and everything under it
// @Tags     orders
// @Param    id      path  string true "Order ID"
// @Param    confirm query bool   true "Must be true"
// @Success  204
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	confirm, _ := strconv.ParseBool(strings.TrimSpace(c.Query("confirm")))
	if err := h.usecase.DeleteOrder(c.Request.Context(), c.Param("id"), confirm); err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateStatus godoc
// @Summary  Move an order to a new status
// @Description Moving to awaiting_approval issues a budget from labor_cost and parts_cost
// @Description and a fresh approval link. Notification problems come back as warnings.
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id   path string true "Order ID"
// @Param    body body request.TransitionRequest true "Transition"
// @Success  200 {object} response.TransitionResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Failure  503 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var payload request.TransitionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	orderID := c.Param("id")
	result, err := h.usecase.Transition(c.Request.Context(), orderID, usecase.TransitionInput{
		Status:    entities.OrderStatus(payload.ResolveStatus()),
		Notes:     payload.ResolveNotes(),
		ActorID:   actorID(c),
		LaborCost: request.AmountPtr(payload.LaborCost),
		PartsCost: request.AmountPtr(payload.PartsCost),
	})
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	if len(result.Warnings) > 0 {
		logger.Warn("transition saved with notification warnings",
			zap.String("order_id", orderID),
			zap.Strings("warnings", result.Warnings),
		)
	}
	c.JSON(http.StatusOK, response.FromTransitionResult(result))
}

// ApplyDiscount godoc
// @Summary  Set the discount of the current budget
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id   path string true "Order ID"
// @Param    body body request.DiscountRequest true "Discount"
// @Success  200 {object} response.OrderResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/orders/{id}/discount [patch]
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	var payload request.DiscountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidAmount)
		return
	}

	order, err := h.usecase.ApplyDiscount(c.Request.Context(), c.Param("id"), payload.Amount.Float64(), payload.Reason)
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromServiceOrder(order))
}

func (h *OrderHandler) ListStatusHistory(c *gin.Context) {
	entries, err := h.usecase.ListStatusHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	if entries == nil {
		entries = []entities.StatusHistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	var payload request.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	item, err := h.usecase.AddItem(c.Request.Context(), c.Param("id"), usecase.AddItemInput{
		Equipment:     payload.Equipment,
		Brand:         payload.Brand,
		Model:         payload.Model,
		SerialNumber:  payload.SerialNumber,
		ReportedIssue: payload.ReportedIssue,
	})
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *OrderHandler) ListItems(c *gin.Context) {
	items, err := h.usecase.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	if items == nil {
		items = []entities.ServiceOrderItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) PostMessage(c *gin.Context) {
	var payload request.PostMessageRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	msg, err := h.usecase.PostMessage(c.Request.Context(), c.Param("id"), usecase.PostMessageInput{
		SenderID:   actorID(c),
		SenderRole: entities.SenderRole(payload.ResolveSenderRole()),
		Body:       payload.Body,
	})
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *OrderHandler) ListMessages(c *gin.Context) {
	msgs, err := h.usecase.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	if msgs == nil {
		msgs = []entities.OrderMessage{}
	}
	c.JSON(http.StatusOK, msgs)
}
