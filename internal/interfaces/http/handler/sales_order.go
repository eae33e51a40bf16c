package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/smallerp/backend/internal/application/trade"
)

// SalesOrderHandler handles sale endpoints
type SalesOrderHandler struct {
	BaseHandler
	orderService *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @Summary      Create a sale
// @Description  Create a draft sale, or post it straight away with status "confirmed"
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key for safe retries"
// @Param        request body tradeapp.CreateSalesOrderRequest true "Sale creation request"
// @Success      201 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req tradeapp.CreateSalesOrderRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID, req)
	h.reply(c, http.StatusCreated, order, err)
}

// GetByID godoc
// @Summary      Get sale by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "sale")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	h.reply(c, http.StatusOK, order, err)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        status query string false "Status filter" Enums(draft, confirmed, cancelled)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        search query string false "Search in invoice number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.SalesOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.SalesOrderListFilter
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
// @Summary      Update a draft sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body tradeapp.UpdateSalesOrderRequest true "Sale update request"
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [put]
func (h *SalesOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "sale")
	if !ok {
		return
	}

	var req tradeapp.UpdateSalesOrderRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	h.reply(c, http.StatusOK, order, err)
}

// Delete godoc
// @Summary      Delete a sale
// @Description  Only draft and cancelled sales can be deleted
// @Tags         sales
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "sale")
	if !ok {
		return
	}

	h.reply(c, http.StatusNoContent, nil, h.orderService.Delete(c.Request.Context(), id))
}

// Confirm godoc
// @Summary      Confirm a sale
// @Description  Post the sale: one out movement per line, stock decremented
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/confirm [post]
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	transition(&h.BaseHandler, c, "sale", h.orderService.Confirm)
}

// Cancel godoc
// @Summary      Cancel a sale
// @Description  A confirmed sale is restocked with return movements
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	transition(&h.BaseHandler, c, "sale", h.orderService.Cancel)
}

// SetPaymentStatus godoc
// @Summary      Set the payment status of a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body tradeapp.SetPaymentStatusRequest true "New payment status"
// @Success      200 {object} dto.Response{data=tradeapp.SalesOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/payment-status [put]
func (h *SalesOrderHandler) SetPaymentStatus(c *gin.Context) {
	id, ok := h.parseID(c, "sale")
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
