package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/anjiri1684/studio_manager/routes"
	"github.com/anjiri1684/studio_manager/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

// setupTestApp wires the full route surface against an in-memory SQLite
// database so handler tests exercise the same middleware chain as production.
func setupTestApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Studio{},
		&models.Admin{},
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Booking{},
		&models.Invoice{},
		&models.Payment{},
		&models.RefreshToken{},
		&models.PortfolioItem{},
	))
	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.AdminRoutes(app)
	routes.CustomerRoutes(app)
	routes.ServiceRoutes(app)
	routes.BookingRoutes(app)
	routes.InvoiceRoutes(app)
	routes.PaymentRoutes(app)
	routes.AnalyticsRoutes(app)
	routes.PortfolioRoutes(app)

	return app
}

func bcryptHash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

func seedStudioUser(t *testing.T, name, email, role string) (models.Studio, models.User, string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	studio := models.Studio{Name: name, Email: email, Status: models.StudioStatusActive}
	require.NoError(t, database.DB.Create(&studio).Error)

	user := models.User{
		StudioID: studio.ID,
		FullName: "Test " + role,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	pair, err := services.IssueTokens(database.DB, services.TokenClaims{
		SubjectID:     user.ID,
		Email:         user.Email,
		PrincipalType: services.PrincipalTypeUser,
		Role:          user.Role,
		StudioID:      &user.StudioID,
	})
	require.NoError(t, err)

	return studio, user, pair.AccessToken
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}
