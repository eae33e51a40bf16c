package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseBody(supplierID, productID, quantity string) map[string]any {
	return map[string]any{
		"supplier_id": supplierID,
		"tax_rate":    "0",
		"items": []map[string]any{
			{"product_id": productID, "quantity": quantity, "unit_price": "6"},
		},
	}
}

func TestPurchaseOrderHandler_ReceiveFlow(t *testing.T) {
	f := newAPIFixture(t)
	supplierID := f.createSupplier(t, "Parts Co")
	productID := f.createProduct(t, "SKU-1", "2")

	w := f.do(t, http.MethodPost, "/purchases", purchaseBody(supplierID, productID, "10"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	purchase := data(t, w)
	purchaseID := purchase["id"].(string)
	assert.Equal(t, "pending", purchase["status"])
	assertAmount(t, "60", purchase["total_amount"])
	assert.Equal(t, "2", f.stockOf(t, productID))

	w = f.do(t, http.MethodPost, "/purchases/"+purchaseID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", data(t, w)["status"])
	assert.Equal(t, "2", f.stockOf(t, productID))

	w = f.do(t, http.MethodPost, "/purchases/"+purchaseID+"/receive", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	received := data(t, w)
	assert.Equal(t, "received", received["status"])
	assert.NotNil(t, received["received_at"])
	assert.Equal(t, "12", f.stockOf(t, productID))

	w = f.do(t, http.MethodPost, "/purchases/"+purchaseID+"/receive", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "12", f.stockOf(t, productID))

	w = f.do(t, http.MethodPost, "/purchases/"+purchaseID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodDelete, "/purchases/"+purchaseID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/products/"+productID+"/movements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list(t, w), 2)
}

func TestPurchaseOrderHandler_Create(t *testing.T) {
	f := newAPIFixture(t)
	supplierID := f.createSupplier(t, "Parts Co")
	productID := f.createProduct(t, "SKU-1", "0")

	t.Run("unknown supplier", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/purchases", purchaseBody(uuid.NewString(), productID, "1"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/purchases", purchaseBody(supplierID, uuid.NewString(), "1"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing supplier", func(t *testing.T) {
		body := purchaseBody(supplierID, productID, "1")
		delete(body, "supplier_id")

		w := f.do(t, http.MethodPost, "/purchases", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cannot be created as received", func(t *testing.T) {
		body := purchaseBody(supplierID, productID, "1")
		body["status"] = "received"

		w := f.do(t, http.MethodPost, "/purchases", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "0", f.stockOf(t, productID))
	})
}

func TestPurchaseOrderHandler_UpdateAndCancel(t *testing.T) {
	f := newAPIFixture(t)
	supplierID := f.createSupplier(t, "Parts Co")
	productID := f.createProduct(t, "SKU-1", "0")

	w := f.do(t, http.MethodPost, "/purchases", purchaseBody(supplierID, productID, "1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	purchaseID := data(t, w)["id"].(string)

	w = f.do(t, http.MethodPut, "/purchases/"+purchaseID, purchaseBody(supplierID, productID, "4"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assertAmount(t, "24", data(t, w)["subtotal"])

	w = f.do(t, http.MethodPut, "/purchases/"+purchaseID+"/payment-status", map[string]any{"payment_status": "partial"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "partial", data(t, w)["payment_status"])

	w = f.do(t, http.MethodPost, "/purchases/"+purchaseID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", data(t, w)["status"])

	w = f.do(t, http.MethodPost, "/purchases/"+purchaseID+"/receive", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "0", f.stockOf(t, productID))

	w = f.do(t, http.MethodGet, "/purchases?supplier_id="+supplierID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list(t, w), 1)
}
