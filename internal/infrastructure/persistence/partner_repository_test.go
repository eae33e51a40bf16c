package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/partner"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(newSQLiteDB(t))

	acme, err := partner.NewCustomer("Acme Retail", partner.Contact{Email: "buyer@acme.test", Phone: "+1 555 0100"}, dec("500"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, acme))

	other, err := partner.NewCustomer("Beta Stores", partner.Contact{}, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	t.Run("round trips contact fields", func(t *testing.T) {
		found, err := repo.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Retail", found.Name)
		assert.Equal(t, "buyer@acme.test", found.Contact.Email)
		assert.True(t, found.CreditLimit.Equal(dec("500")))
	})

	t.Run("update bumps version", func(t *testing.T) {
		require.NoError(t, acme.Update("Acme Retail Ltd", acme.Contact, dec("750")))
		require.NoError(t, repo.Save(ctx, acme))
		assert.Equal(t, 2, acme.Version)

		found, err := repo.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Retail Ltd", found.Name)
	})

	t.Run("search and count", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "acme"
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)

		total, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("has no sales", func(t *testing.T) {
		has, err := repo.HasSales(ctx, acme.ID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, other.ID))
		_, err := repo.FindByID(ctx, other.ID)
		assert.ErrorIs(t, err, errCustomerNotFound)
		assert.True(t, shared.IsNotFound(repo.Delete(ctx, uuid.New())))
	})
}

func TestGormSupplierRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newSQLiteDB(t))

	s, err := partner.NewSupplier("Parts Co", "Dana", partner.Contact{Email: "sales@parts.test"}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", found.ContactPerson)
	assert.Equal(t, partner.DefaultPaymentTerms, found.PaymentTerms)

	stale := *found
	require.NoError(t, found.Update("Parts Co", "Robin", found.Contact, "net_60"))
	require.NoError(t, repo.Save(ctx, found))

	err = repo.Save(ctx, &stale)
	assert.ErrorIs(t, err, errConcurrentModification)

	has, err := repo.HasPurchases(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, errSupplierNotFound)
}
