package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniworkhq/uniwork/internal/models"
)

func TestSaveExternalAccountUpserts(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry("https://token.example.com"))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		ProviderID:   "g-123",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
	})
	require.NoError(t, err)

	// A second grant for the same pair updates in place.
	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		ProviderID:   "g-123",
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		ExpiresIn:    3600,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ExternalAccount{}).
		Where("user_id = ? AND provider = ?", user.ID, "google").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	account, err := service.GetAccount(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "access-2", account.AccessToken)
	assert.Equal(t, "refresh-2", account.RefreshToken)
}

func TestSaveExternalAccountUnknownProvider(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry("https://token.example.com"))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:      user.ID,
		Provider:    "box",
		AccessToken: "access",
	})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGetValidAccessTokenShortCircuitsFreshToken(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "should not be called", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	now := time.Now()
	service, err := NewDriveTokenService(db, testRegistry(server.URL),
		WithDriveClock(fixedClock(now)))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		AccessToken:  "fresh-access",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
	})
	require.NoError(t, err)

	token, err := service.GetValidAccessToken(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token)
	assert.Zero(t, calls.Load(), "refresh endpoint must not be hit for a fresh token")
}

func TestGetValidAccessTokenRefreshes(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new-access","expires_in":3600}`))
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry(server.URL))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		AccessToken:  "stale-access",
		RefreshToken: "old-refresh",
		ExpiresIn:    -60, // already expired
	})
	require.NoError(t, err)

	token, err := service.GetValidAccessToken(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "new-access", token)
	assert.EqualValues(t, 1, calls.Load())

	// The provider did not rotate the refresh token; the old one is kept.
	account, err := service.GetAccount(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "new-access", account.AccessToken)
	assert.Equal(t, "old-refresh", account.RefreshToken)
	assert.True(t, account.ExpiresAt.After(time.Now().Add(30*time.Minute)))
}

func TestGetValidAccessTokenRotatesRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":3600}`))
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry(server.URL))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		AccessToken:  "stale-access",
		RefreshToken: "old-refresh",
		ExpiresIn:    -60,
	})
	require.NoError(t, err)

	_, err = service.GetValidAccessToken(testCtx(), user.ID, "google")
	require.NoError(t, err)

	account, err := service.GetAccount(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", account.RefreshToken)
}

func TestGetValidAccessTokenExpirySkew(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"refreshed","expires_in":3600}`))
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	now := time.Now()
	service, err := NewDriveTokenService(db, testRegistry(server.URL),
		WithDriveClock(fixedClock(now)))
	require.NoError(t, err)

	// Expires in 10s: inside the 30s skew window, so treated as expired.
	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		AccessToken:  "nearly-expired",
		RefreshToken: "refresh",
		ExpiresIn:    10,
	})
	require.NoError(t, err)

	token, err := service.GetValidAccessToken(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token)
}

func TestGetValidAccessTokenFailedRefreshLeavesRecordUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry(server.URL))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:       user.ID,
		Provider:     "google",
		AccessToken:  "stale-access",
		RefreshToken: "revoked-refresh",
		ExpiresIn:    -60,
	})
	require.NoError(t, err)

	before, err := service.GetAccount(testCtx(), user.ID, "google")
	require.NoError(t, err)

	_, err = service.GetValidAccessToken(testCtx(), user.ID, "google")
	assert.ErrorIs(t, err, ErrNoDriveCredential)

	after, err := service.GetAccount(testCtx(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, before.AccessToken, after.AccessToken)
	assert.Equal(t, before.RefreshToken, after.RefreshToken)
	assert.WithinDuration(t, before.ExpiresAt, after.ExpiresAt, time.Second)
}

func TestGetValidAccessTokenWithoutRefreshToken(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry("https://token.example.com"))
	require.NoError(t, err)

	_, err = service.SaveExternalAccount(testCtx(), SaveExternalAccountInput{
		UserID:      user.ID,
		Provider:    "google",
		AccessToken: "stale-access",
		ExpiresIn:   -60,
	})
	require.NoError(t, err)

	_, err = service.GetValidAccessToken(testCtx(), user.ID, "google")
	assert.ErrorIs(t, err, ErrNoDriveCredential)
}

func TestGetValidAccessTokenNoLinkedAccount(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewDriveTokenService(db, testRegistry("https://token.example.com"))
	require.NoError(t, err)

	_, err = service.GetValidAccessToken(testCtx(), user.ID, "google")
	assert.ErrorIs(t, err, ErrNoDriveCredential)

	_, err = service.GetValidAccessToken(testCtx(), user.ID, "box")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
