package services

import (
	"errors"
	"time"

	config "github.com/anjiri1684/studio_manager/configs"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PrincipalTypeAdmin = "admin"
	PrincipalTypeUser  = "user"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

type TokenClaims struct {
	SubjectID     uuid.UUID
	Email         string
	PrincipalType string
	Role          string
	StudioID      *uuid.UUID
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IssueTokens signs an access/refresh token pair and persists the refresh token
// keyed by subject. The previous refresh token for the subject is replaced, so
// there is exactly one live session per principal and the last login wins.
func IssueTokens(db *gorm.DB, claims TokenClaims) (*TokenPair, error) {
	accessToken, err := signToken(claims, accessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshExpiry := time.Now().Add(refreshTokenTTL)
	refreshToken, err := signToken(claims, refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", claims.SubjectID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.RefreshToken{
			SubjectID: claims.SubjectID,
			Token:     refreshToken,
			ExpiresAt: refreshExpiry,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ParseRefreshToken verifies the token signature and expiry, then requires an
// exact match against the stored refresh token for the subject. A token that was
// valid but has been superseded by a newer login is rejected here.
func ParseRefreshToken(db *gorm.DB, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidRefreshToken
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := claimsFromToken(token)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	var stored models.RefreshToken
	if err := db.First(&stored, "subject_id = ?", claims.SubjectID).Error; err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if stored.Token != tokenString || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	return claims, nil
}

// RevokeRefreshToken removes the stored refresh token for the subject. Access
// tokens already issued stay valid until their natural expiry.
func RevokeRefreshToken(db *gorm.DB, subjectID uuid.UUID) error {
	return db.Where("subject_id = ?", subjectID).Delete(&models.RefreshToken{}).Error
}

func signToken(claims TokenClaims, ttl time.Duration) (string, error) {
	// jti keeps tokens unique even when two logins land in the same second.
	mapClaims := jwt.MapClaims{
		"sub":            claims.SubjectID.String(),
		"email":          claims.Email,
		"principal_type": claims.PrincipalType,
		"jti":            uuid.NewString(),
		"exp":            time.Now().Add(ttl).Unix(),
	}
	if claims.PrincipalType == PrincipalTypeUser {
		mapClaims["role"] = claims.Role
		if claims.StudioID != nil {
			mapClaims["studio_id"] = claims.StudioID.String()
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func claimsFromToken(token *jwt.Token) (*TokenClaims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	subject, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, errors.New("missing subject claim")
	}
	subjectID, err := uuid.Parse(subject)
	if err != nil {
		return nil, err
	}

	claims := &TokenClaims{SubjectID: subjectID}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if principalType, ok := mapClaims["principal_type"].(string); ok {
		claims.PrincipalType = principalType
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if studio, ok := mapClaims["studio_id"].(string); ok {
		if studioID, err := uuid.Parse(studio); err == nil {
			claims.StudioID = &studioID
		}
	}
	return claims, nil
}
