package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/smallerp/backend/internal/application/inventory"
)

// parseSince parses the since query value: RFC3339, or a plain date taken
// as midnight UTC
func parseSince(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// InventoryHandler handles the stock ledger endpoints of a product
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// AdjustStock godoc
// @Summary      Adjust stock
// @Description  Append a signed adjustment movement (stock count correction, damage, ...)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Signed quantity and notes"
// @Success      201 {object} dto.Response{data=inventoryapp.MovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	productID, ok := h.parseID(c, "product")
	if !ok {
		return
	}
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if !h.bind(c, &req) {
		return
	}

	movement, err := h.inventoryService.AdjustStock(c.Request.Context(), productID, userID, req)
	h.reply(c, http.StatusCreated, movement, err)
}

// ListMovements godoc
// @Summary      List stock movements
// @Description  A product's movements, oldest first, optionally since a point in time
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        since query string false "RFC3339 timestamp or YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=[]inventoryapp.MovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, ok := h.parseID(c, "product")
	if !ok {
		return
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := parseSince(raw)
		if err != nil {
			h.BadRequest(c, "Invalid since, expected RFC3339")
			return
		}
		since = parsed
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), productID, since)
	h.reply(c, http.StatusOK, movements, err)
}

// Reconcile godoc
// @Summary      Reconcile stock with the ledger
// @Description  Compare the product's stock counter with the sum of its movements
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.ReconciliationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	productID, ok := h.parseID(c, "product")
	if !ok {
		return
	}

	rec, err := h.inventoryService.Reconcile(c.Request.Context(), productID)
	h.reply(c, http.StatusOK, rec, err)
}
