package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/anjiri1684/studio_manager/notifications"
	"github.com/anjiri1684/studio_manager/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterRequest struct {
	StudioName string  `json:"studio_name" validate:"required,min=2"`
	FullName   string  `json:"full_name" validate:"required,min=2"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Phone      *string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	StudioID  string    `json:"studio_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterStudio signs up a new studio together with its OWNER account in a
// single transaction.
func RegisterStudio(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var owner models.User
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		studio := models.Studio{
			Name:   req.StudioName,
			Email:  req.Email,
			Phone:  req.Phone,
			Status: models.StudioStatusActive,
		}
		if err := tx.Create(&studio).Error; err != nil {
			return err
		}

		owner = models.User{
			StudioID: studio.ID,
			FullName: req.FullName,
			Email:    req.Email,
			Password: string(hashedPassword),
			Role:     models.RoleOwner,
			IsActive: true,
		}
		if err := tx.Create(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New("email already exists")
			}
			return err
		}
		return nil
	})

	if err != nil {
		if err.Error() == "email already exists" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create studio"})
	}

	tokens, err := services.IssueTokens(database.DB, services.TokenClaims{
		SubjectID:     owner.ID,
		Email:         owner.Email,
		PrincipalType: services.PrincipalTypeUser,
		Role:          owner.Role,
		StudioID:      &owner.StudioID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	go notifications.SendEmail(owner.FullName, owner.Email, "Welcome to Studio Manager!",
		"<h1>Welcome!</h1><p>Your studio account is ready. Log in to start managing bookings and invoices.</p>")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         userResponse(owner),
	})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Preload("Studio").Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account is deactivated"})
	}
	if user.Studio.Status != models.StudioStatusActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Studio is suspended"})
	}

	tokens, err := services.IssueTokens(database.DB, services.TokenClaims{
		SubjectID:     user.ID,
		Email:         user.Email,
		PrincipalType: services.PrincipalTypeUser,
		Role:          user.Role,
		StudioID:      &user.StudioID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         userResponse(user),
	})
}

func LoginAdmin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var admin models.Admin
	if err := database.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	tokens, err := services.IssueTokens(database.DB, services.TokenClaims{
		SubjectID:     admin.ID,
		Email:         admin.Email,
		PrincipalType: services.PrincipalTypeAdmin,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"admin": fiber.Map{
			"id":        admin.ID.String(),
			"full_name": admin.FullName,
			"email":     admin.Email,
		},
	})
}

// RefreshTokens exchanges a refresh token for a new pair. The presented token
// must exactly match the stored one for the subject; tokens superseded by a
// newer login are rejected even when their signature is still valid.
func RefreshTokens(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	claims, err := services.ParseRefreshToken(database.DB, req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
	}

	tokens, err := services.IssueTokens(database.DB, *claims)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(tokens)
}

// Logout removes the stored refresh token. The access token is not revoked and
// stays usable until it expires.
func Logout(c *fiber.Ctx) error {
	subjectID, err := middleware.SubjectID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	if err := services.RevokeRefreshToken(database.DB, subjectID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to log out"})
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func userResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		StudioID:  user.StudioID.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
