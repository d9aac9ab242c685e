package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

func TestRegisterCreatesProgressAndSettings(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	authSvc := newTestAuthService(sqlSvc)

	resp, err := authSvc.Register(dto.RegisterRequest{
		Email:    "newbie@example.com",
		Username: "newbie",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	var progress model.UserProgress
	require.NoError(t, sqlSvc.Db().First(&progress, "user_id = ?", resp.UserID).Error)
	assert.Equal(t, 1, progress.Level)

	var settings model.UserSettings
	require.NoError(t, sqlSvc.Db().First(&settings, "user_id = ?", resp.UserID).Error)
}

func TestLoginAndRefreshRoundTrip(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	authSvc := newTestAuthService(sqlSvc)

	reg, err := authSvc.Register(dto.RegisterRequest{
		Email:    "login@example.com",
		Username: "loginuser",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	login, err := authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "loginuser",
		Password:        "SecurePass123!",
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.User.ID)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)

	pair, err := authSvc.RefreshToken(dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	authSvc := newTestAuthService(sqlSvc)

	_, err := authSvc.Register(dto.RegisterRequest{
		Email:    "typed@example.com",
		Username: "typeduser",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	login, err := authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "typeduser",
		Password:        "SecurePass123!",
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	// Access tokens carry the wrong type claim for the refresh path.
	_, err = authSvc.RefreshToken(dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}

func TestLogoutVerifiesTokenOwnership(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	authSvc := newTestAuthService(sqlSvc)

	_, err := authSvc.Register(dto.RegisterRequest{
		Email:    "owner@example.com",
		Username: "owneruser",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	login, err := authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "owneruser",
		Password:        "SecurePass123!",
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	// Someone else's user ID cannot revoke this token.
	err = authSvc.Logout("someone-else", dto.LogoutRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)

	// The owner can.
	err = authSvc.Logout(login.User.ID, dto.LogoutRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
}

func TestLogoutRejectsGarbageToken(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	authSvc := newTestAuthService(sqlSvc)

	err := authSvc.Logout("any-user", dto.LogoutRequest{RefreshToken: "not-a-jwt"})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}

func TestLogoutAllSucceedsWithoutCache(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	authSvc := newTestAuthService(sqlSvc)

	// Without Redis the denylist is empty and revocation is a no-op;
	// the operation still succeeds so clients behave the same way.
	require.NoError(t, authSvc.LogoutAll("any-user"))
}
