package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/smallerp/backend/internal/application/catalog"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create godoc
// @Summary      Create a new product
// @Description  Create a product. A non-zero opening_stock is recorded as an adjustment movement.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key for safe retries"
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), userID, req)
	h.reply(c, http.StatusCreated, product, err)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	h.reply(c, http.StatusOK, product, err)
}

// List godoc
// @Summary      List products
// @Description  Paginated product list with optional search and status filter
// @Tags         products
// @Produce      json
// @Param        search query string false "Search in SKU and name"
// @Param        status query string false "Status filter" Enums(active, inactive, discontinued)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// ListLowStock godoc
// @Summary      List low-stock products
// @Description  Products whose stock is at or below their minimum stock level
// @Tags         products
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Security     BearerAuth
// @Router       /products/low-stock [get]
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, err := h.productService.ListLowStock(c.Request.Context(), filter)
	h.reply(c, http.StatusOK, products, err)
}

// Update godoc
// @Summary      Update a product
// @Description  Update catalog attributes. Stock cannot be edited here.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.parseID(c, "product")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	h.reply(c, http.StatusOK, product, err)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Delete a product that no order or stock movement references
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.parseID(c, "product")
	if !ok {
		return
	}

	h.reply(c, http.StatusNoContent, nil, h.productService.Delete(c.Request.Context(), productID))
}
