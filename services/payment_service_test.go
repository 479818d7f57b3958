package services

import (
	"testing"

	"github.com/anjiri1684/studio_manager/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Studio{},
		&models.User{},
		&models.Customer{},
		&models.Invoice{},
		&models.Payment{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedInvoice(t *testing.T, db *gorm.DB, total string) (models.Studio, models.Invoice) {
	studio := models.Studio{Name: "Aperture Studio", Email: "hello@aperture.test", Status: models.StudioStatusActive}
	require.NoError(t, db.Create(&studio).Error)

	customer := models.Customer{StudioID: studio.ID, Name: "Jane Walker", Phone: "+254700000001"}
	require.NoError(t, db.Create(&customer).Error)

	invoice := models.Invoice{
		StudioID:      studio.ID,
		CustomerID:    customer.ID,
		InvoiceNumber: "INV-2026-" + uuid.New().String()[:6],
		Total:         decimal.RequireFromString(total),
		Status:        models.InvoiceStatusSent,
	}
	require.NoError(t, db.Create(&invoice).Error)

	return studio, invoice
}

func reloadInvoice(t *testing.T, db *gorm.DB, id uuid.UUID) models.Invoice {
	var invoice models.Invoice
	require.NoError(t, db.First(&invoice, "id = ?", id).Error)
	return invoice
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreatePayment_PartialThenPaidThenOverpayRejected(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")

	payment, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        dec("60.00"),
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(dec("60.00")))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, reloadInvoice(t, db, invoice.ID).Status)

	_, err = CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        dec("40.00"),
		PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, reloadInvoice(t, db, invoice.ID).Status)

	// Remaining balance is exactly zero; a single cent must be rejected.
	_, err = CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        dec("0.01"),
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrExceedsBalance)

	var count int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCreatePayment_SumNeverExceedsTotal(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "250.00")

	amounts := []string{"100.00", "99.99", "50.00", "0.01", "0.01"}
	for _, amount := range amounts {
		CreatePayment(db, studio.ID, CreatePaymentInput{
			InvoiceID:     invoice.ID,
			Amount:        dec(amount),
			PaymentMethod: models.PaymentMethodCash,
		})

		sum, err := sumInvoicePayments(db, invoice.ID)
		require.NoError(t, err)
		assert.True(t, sum.LessThanOrEqual(invoice.Total),
			"payment sum %s exceeds invoice total %s", sum, invoice.Total)
	}

	sum, err := sumInvoicePayments(db, invoice.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("250.00")))
	assert.Equal(t, models.InvoiceStatusPaid, reloadInvoice(t, db, invoice.ID).Status)
}

func TestCreatePayment_RejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")

	for _, amount := range []string{"0.00", "-5.00"} {
		_, err := CreatePayment(db, studio.ID, CreatePaymentInput{
			InvoiceID:     invoice.ID,
			Amount:        dec(amount),
			PaymentMethod: models.PaymentMethodCash,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	var count int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, models.InvoiceStatusSent, reloadInvoice(t, db, invoice.ID).Status)
}

func TestCreatePayment_RejectsCancelledInvoice(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")
	require.NoError(t, db.Model(&invoice).Update("status", models.InvoiceStatusCancelled).Error)

	_, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        dec("10.00"),
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestCreatePayment_CrossTenantInvoiceIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, invoice := seedInvoice(t, db, "100.00")

	otherStudio := models.Studio{Name: "Rival Studio", Email: "rival@test", Status: models.StudioStatusActive}
	require.NoError(t, db.Create(&otherStudio).Error)

	_, err := CreatePayment(db, otherStudio.ID, CreatePaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        dec("10.00"),
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestRemovePayment_LastPaymentResetsToSent(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")

	payment, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID:     invoice.ID,
		Amount:        dec("100.00"),
		PaymentMethod: models.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusPaid, reloadInvoice(t, db, invoice.ID).Status)

	require.NoError(t, RemovePayment(db, studio.ID, payment.ID))

	// The reset lands on SENT regardless of the status before the first
	// payment; the prior status is not recorded anywhere.
	assert.Equal(t, models.InvoiceStatusSent, reloadInvoice(t, db, invoice.ID).Status)

	var count int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRemovePayment_RemainingPartialKeepsPartiallyPaid(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")

	_, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID: invoice.ID, Amount: dec("60.00"), PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)
	second, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID: invoice.ID, Amount: dec("40.00"), PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, RemovePayment(db, studio.ID, second.ID))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, reloadInvoice(t, db, invoice.ID).Status)

	sum, err := sumInvoicePayments(db, invoice.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("60.00")))
}

func TestRemovePayment_CrossTenantIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")

	payment, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID: invoice.ID, Amount: dec("10.00"), PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	otherStudio := models.Studio{Name: "Rival Studio", Email: "rival@test", Status: models.StudioStatusActive}
	require.NoError(t, db.Create(&otherStudio).Error)

	assert.ErrorIs(t, RemovePayment(db, otherStudio.ID, payment.ID), ErrPaymentNotFound)

	var count int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRemovePayment_CancelledInvoiceStaysCancelled(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")

	payment, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID: invoice.ID, Amount: dec("30.00"), PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("status", models.InvoiceStatusCancelled).Error)

	require.NoError(t, RemovePayment(db, studio.ID, payment.ID))
	assert.Equal(t, models.InvoiceStatusCancelled, reloadInvoice(t, db, invoice.ID).Status)
}

func TestRemoveThenReAddRestoresSumNotHistory(t *testing.T) {
	db := setupTestDB(t)
	studio, invoice := seedInvoice(t, db, "100.00")
	require.NoError(t, db.Model(&invoice).Update("status", models.InvoiceStatusDraft).Error)

	payment, err := CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID: invoice.ID, Amount: dec("50.00"), PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusPartiallyPaid, reloadInvoice(t, db, invoice.ID).Status)

	require.NoError(t, RemovePayment(db, studio.ID, payment.ID))
	// Was DRAFT before the first payment, but the reset lands on SENT.
	require.Equal(t, models.InvoiceStatusSent, reloadInvoice(t, db, invoice.ID).Status)

	_, err = CreatePayment(db, studio.ID, CreatePaymentInput{
		InvoiceID: invoice.ID, Amount: dec("50.00"), PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	sum, err := sumInvoicePayments(db, invoice.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("50.00")))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, reloadInvoice(t, db, invoice.ID).Status)
}
