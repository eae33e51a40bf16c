package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/smallerp/backend/internal/application/trade"
)

// PurchaseOrderHandler handles purchase endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @Summary      Create a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key for safe retries"
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Purchase creation request"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req tradeapp.CreatePurchaseOrderRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID, req)
	h.reply(c, http.StatusCreated, order, err)
}

// GetByID godoc
// @Summary      Get purchase by ID
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "purchase")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	h.reply(c, http.StatusOK, order, err)
}

// List godoc
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        status query string false "Status filter" Enums(pending, confirmed, received, cancelled)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        search query string false "Search in order number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update an unreceived purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseOrderRequest true "Purchase update request"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "purchase")
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseOrderRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	h.reply(c, http.StatusOK, order, err)
}

// Delete godoc
// @Summary      Delete a purchase
// @Description  Received purchases cannot be deleted
// @Tags         purchases
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "purchase")
	if !ok {
		return
	}

	h.reply(c, http.StatusNoContent, nil, h.orderService.Delete(c.Request.Context(), id))
}

// Confirm godoc
// @Summary      Confirm a purchase
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, ok := h.parseID(c, "purchase")
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), id)
	h.reply(c, http.StatusOK, order, err)
}

// Receive godoc
// @Summary      Receive a purchase
// @Description  Post the goods receipt: one purchase movement per line, stock incremented
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	transition(&h.BaseHandler, c, "purchase", h.orderService.Receive)
}

// Cancel godoc
// @Summary      Cancel a purchase
// @Description  Received purchases cannot be cancelled
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "purchase")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id)
	h.reply(c, http.StatusOK, order, err)
}

// SetPaymentStatus godoc
// @Summary      Set the payment status of a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        request body tradeapp.SetPaymentStatusRequest true "New payment status"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/payment-status [put]
func (h *PurchaseOrderHandler) SetPaymentStatus(c *gin.Context) {
	id, ok := h.parseID(c, "purchase")
	if !ok {
		return
	}

	var req tradeapp.SetPaymentStatusRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.SetPaymentStatus(c.Request.Context(), id, req)
	h.reply(c, http.StatusOK, order, err)
}
