package services

import (
	"testing"

	"github.com/anjiri1684/studio_manager/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUserClaims() TokenClaims {
	studioID := uuid.New()
	return TokenClaims{
		SubjectID:     uuid.New(),
		Email:         "owner@aperture.test",
		PrincipalType: PrincipalTypeUser,
		Role:          models.RoleOwner,
		StudioID:      &studioID,
	}
}

func TestIssueTokens_StoresSingleRefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	claims := testUserClaims()

	pair, err := IssueTokens(db, claims)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	var count int64
	db.Model(&models.RefreshToken{}).Where("subject_id = ?", claims.SubjectID).Count(&count)
	assert.Equal(t, int64(1), count)

	parsed, err := ParseRefreshToken(db, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SubjectID, parsed.SubjectID)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, PrincipalTypeUser, parsed.PrincipalType)
	assert.Equal(t, models.RoleOwner, parsed.Role)
	require.NotNil(t, parsed.StudioID)
	assert.Equal(t, *claims.StudioID, *parsed.StudioID)
}

func TestParseRefreshToken_SupersededTokenIsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	claims := testUserClaims()

	first, err := IssueTokens(db, claims)
	require.NoError(t, err)

	second, err := IssueTokens(db, claims)
	require.NoError(t, err)

	// The newer login replaced the stored token; the old one still carries a
	// valid signature but must be rejected immediately.
	_, err = ParseRefreshToken(db, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = ParseRefreshToken(db, second.RefreshToken)
	assert.NoError(t, err)

	var count int64
	db.Model(&models.RefreshToken{}).Where("subject_id = ?", claims.SubjectID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestParseRefreshToken_GarbageIsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)

	_, err := ParseRefreshToken(db, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeRefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	claims := testUserClaims()

	pair, err := IssueTokens(db, claims)
	require.NoError(t, err)

	require.NoError(t, RevokeRefreshToken(db, claims.SubjectID))

	_, err = ParseRefreshToken(db, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAdminClaims_CarryNoStudio(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)

	pair, err := IssueTokens(db, TokenClaims{
		SubjectID:     uuid.New(),
		Email:         "root@platform.test",
		PrincipalType: PrincipalTypeAdmin,
	})
	require.NoError(t, err)

	parsed, err := ParseRefreshToken(db, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, PrincipalTypeAdmin, parsed.PrincipalType)
	assert.Nil(t, parsed.StudioID)
	assert.Empty(t, parsed.Role)
}
