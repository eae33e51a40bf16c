package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/smallerp/backend/internal/application/partner"
)

// partnerService is the shape shared by the customer and supplier services
type partnerService[C, U, R any] interface {
	Create(ctx context.Context, req C) (*R, error)
	GetByID(ctx context.Context, id uuid.UUID) (*R, error)
	List(ctx context.Context, filter partnerapp.ListFilter) ([]R, int64, error)
	Update(ctx context.Context, id uuid.UUID, req U) (*R, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// partnerHandler serves the CRUD routes of a trading partner directory.
// C and U are the create and update request bodies, R the response.
type partnerHandler[C, U, R any] struct {
	BaseHandler
	kind    string
	service partnerService[C, U, R]
}

// CustomerHandler serves /customers
type CustomerHandler struct {
	partnerHandler[partnerapp.CreateCustomerRequest, partnerapp.UpdateCustomerRequest, partnerapp.CustomerResponse]
}

// SupplierHandler serves /suppliers
type SupplierHandler struct {
	partnerHandler[partnerapp.CreateSupplierRequest, partnerapp.UpdateSupplierRequest, partnerapp.SupplierResponse]
}

func NewCustomerHandler(service *partnerapp.CustomerService) *CustomerHandler {
	h := &CustomerHandler{}
	h.kind, h.service = "customer", service
	return h
}

func NewSupplierHandler(service *partnerapp.SupplierService) *SupplierHandler {
	h := &SupplierHandler{}
	h.kind, h.service = "supplier", service
	return h
}

// Create godoc
// @Summary  Create a customer or supplier
// @Tags     partners
// @Accept   json
// @Produce  json
// @Success  201 {object} dto.Response
// @Failure  400 {object} dto.Response{error=dto.ErrorInfo}
// @Security BearerAuth
// @Router   /customers [post]
// @Router   /suppliers [post]
func (h *partnerHandler[C, U, R]) Create(c *gin.Context) {
	var req C
	if !h.bind(c, &req) {
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	h.reply(c, http.StatusCreated, created, err)
}

// GetByID godoc
// @Summary  Get a customer or supplier
// @Tags     partners
// @Param    id path string true "Partner ID" format(uuid)
// @Success  200 {object} dto.Response
// @Failure  404 {object} dto.Response{error=dto.ErrorInfo}
// @Security BearerAuth
// @Router   /customers/{id} [get]
// @Router   /suppliers/{id} [get]
func (h *partnerHandler[C, U, R]) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, h.kind)
	if !ok {
		return
	}
	found, err := h.service.GetByID(c.Request.Context(), id)
	h.reply(c, http.StatusOK, found, err)
}

// List godoc
// @Summary  List customers or suppliers
// @Tags     partners
// @Param    search query string false "Search in name, email and phone"
// @Param    page query int false "Page number" default(1)
// @Param    page_size query int false "Page size" default(20)
// @Success  200 {object} dto.Response{meta=dto.Meta}
// @Security BearerAuth
// @Router   /customers [get]
// @Router   /suppliers [get]
func (h *partnerHandler[C, U, R]) List(c *gin.Context) {
	var filter partnerapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary  Update a customer or supplier
// @Tags     partners
// @Param    id path string true "Partner ID" format(uuid)
// @Success  200 {object} dto.Response
// @Failure  400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure  404 {object} dto.Response{error=dto.ErrorInfo}
// @Security BearerAuth
// @Router   /customers/{id} [put]
// @Router   /suppliers/{id} [put]
func (h *partnerHandler[C, U, R]) Update(c *gin.Context) {
	id, ok := h.parseID(c, h.kind)
	if !ok {
		return
	}
	var req U
	if !h.bind(c, &req) {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, req)
	h.reply(c, http.StatusOK, updated, err)
}

// Delete godoc
// @Summary      Delete a customer or supplier
// @Description  Partners referenced by orders cannot be deleted
// @Tags         partners
// @Param        id path string true "Partner ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
// @Router       /suppliers/{id} [delete]
func (h *partnerHandler[C, U, R]) Delete(c *gin.Context) {
	id, ok := h.parseID(c, h.kind)
	if !ok {
		return
	}
	h.reply(c, http.StatusNoContent, nil, h.service.Delete(c.Request.Context(), id))
}
