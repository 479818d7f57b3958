package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCustomer(t *testing.T, db *gorm.DB, studio models.Studio, name, phone string) models.Customer {
	customer := models.Customer{StudioID: studio.ID, Name: name, Phone: phone}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func TestCreateCustomer(t *testing.T) {
	app := setupTestApp(t)
	_, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)

	resp, body := jsonRequest(t, app, http.MethodPost, "/api/v1/customers", token, map[string]interface{}{
		"name":  "Jane Walker",
		"phone": "+254700000001",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Jane Walker", body["name"])
}

func TestCreateCustomer_DuplicatePhoneWithinStudioConflicts(t *testing.T) {
	app := setupTestApp(t)
	studio, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	seedCustomer(t, database.DB, studio, "Jane Walker", "+254700000001")

	resp, _ := jsonRequest(t, app, http.MethodPost, "/api/v1/customers", token, map[string]interface{}{
		"name":  "Different Name",
		"phone": "+254700000001",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateCustomer_SamePhoneInAnotherStudioIsAllowed(t *testing.T) {
	app := setupTestApp(t)
	otherStudio, _, _ := seedStudioUser(t, "Rival Studio", "owner@rival.test", models.RoleOwner)
	seedCustomer(t, database.DB, otherStudio, "Jane Walker", "+254700000001")

	_, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	resp, _ := jsonRequest(t, app, http.MethodPost, "/api/v1/customers", token, map[string]interface{}{
		"name":  "Jane Walker",
		"phone": "+254700000001",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetCustomer_CrossTenantIsNotFound(t *testing.T) {
	app := setupTestApp(t)
	otherStudio, _, _ := seedStudioUser(t, "Rival Studio", "owner@rival.test", models.RoleOwner)
	customer := seedCustomer(t, database.DB, otherStudio, "Jane Walker", "+254700000001")

	_, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	resp, _ := jsonRequest(t, app, http.MethodGet, "/api/v1/customers/"+customer.ID.String(), token, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCustomers_Pagination(t *testing.T) {
	app := setupTestApp(t)
	studio, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	for i := 0; i < 15; i++ {
		seedCustomer(t, database.DB, studio, fmt.Sprintf("Customer %02d", i), fmt.Sprintf("+2547000000%02d", i))
	}

	resp, body := jsonRequest(t, app, http.MethodGet, "/api/v1/customers?page=2&limit=10", token, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 5)

	meta, ok := body["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 15, meta["total"])
	assert.EqualValues(t, 2, meta["last_page"])
}

func TestGetCustomers_Search(t *testing.T) {
	app := setupTestApp(t)
	studio, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)

	email := "jane.walker@example.test"
	jane := models.Customer{StudioID: studio.ID, Name: "Jane Walker", Phone: "+254700000001", Email: &email}
	require.NoError(t, database.DB.Create(&jane).Error)
	seedCustomer(t, database.DB, studio, "John Doe", "+254700000002")

	// Name substring, case-insensitive.
	resp, body := jsonRequest(t, app, http.MethodGet, "/api/v1/customers?search=JANE", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	first, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Jane Walker", first["name"])

	// Email substring.
	resp, body = jsonRequest(t, app, http.MethodGet, "/api/v1/customers?search=example.test", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ = body["data"].([]interface{})
	assert.Len(t, data, 1)

	// Exact phone match ("+" url-encoded).
	resp, body = jsonRequest(t, app, http.MethodGet, "/api/v1/customers?search=%2B254700000002", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ = body["data"].([]interface{})
	require.Len(t, data, 1)
	first, _ = data[0].(map[string]interface{})
	assert.Equal(t, "John Doe", first["name"])

	// No match.
	resp, body = jsonRequest(t, app, http.MethodGet, "/api/v1/customers?search=nobody", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ = body["data"].([]interface{})
	assert.Empty(t, data)
}

func TestDeleteCustomer_WithBookingConflicts(t *testing.T) {
	app := setupTestApp(t)
	studio, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	customer := seedCustomer(t, database.DB, studio, "Jane Walker", "+254700000001")

	service := models.Service{StudioID: studio.ID, Name: "Portrait Session", DurationMinutes: 60}
	require.NoError(t, database.DB.Create(&service).Error)

	booking := models.Booking{
		StudioID:   studio.ID,
		CustomerID: customer.ID,
		ServiceID:  service.ID,
		Status:     models.BookingStatusConfirmed,
	}
	require.NoError(t, database.DB.Create(&booking).Error)

	resp, _ := jsonRequest(t, app, http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	database.DB.Model(&models.Customer{}).Where("id = ?", customer.ID).Count(&count)
	assert.Equal(t, int64(1), count, "customer row must be retained")
}

func TestDeleteCustomer_RequiresOwnerRole(t *testing.T) {
	app := setupTestApp(t)
	studio, _, _ := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	customer := seedCustomer(t, database.DB, studio, "Jane Walker", "+254700000001")

	_, _, assistantToken := seedStudioUser(t, "Aperture Studio 2", "assistant@aperture.test", models.RoleAssistant)

	resp, _ := jsonRequest(t, app, http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), assistantToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteCustomer_CleanCustomerSucceeds(t *testing.T) {
	app := setupTestApp(t)
	studio, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	customer := seedCustomer(t, database.DB, studio, "Jane Walker", "+254700000001")

	resp, _ := jsonRequest(t, app, http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	database.DB.Model(&models.Customer{}).Where("id = ?", customer.ID).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateCustomer_PhoneCollisionConflicts(t *testing.T) {
	app := setupTestApp(t)
	studio, _, token := seedStudioUser(t, "Aperture Studio", "owner@aperture.test", models.RoleOwner)
	seedCustomer(t, database.DB, studio, "Jane Walker", "+254700000001")
	other := seedCustomer(t, database.DB, studio, "John Doe", "+254700000002")

	resp, _ := jsonRequest(t, app, http.MethodPatch, "/api/v1/customers/"+other.ID.String(), token, map[string]interface{}{
		"phone": "+254700000001",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
