package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uniworkhq/uniwork/internal/drive"
	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/pkg/logger"
	"github.com/uniworkhq/uniwork/pkg/metrics"
)

const (
	// Tokens within this margin of expiry are treated as already expired,
	// covering clock skew and in-flight request latency.
	tokenExpirySkew = 30 * time.Second

	refreshTimeout = 10 * time.Second
)

// DriveTokenOption customises DriveTokenService behaviour.
type DriveTokenOption func(*DriveTokenService)

// WithDriveClock injects a custom clock, primarily for testing.
func WithDriveClock(clock func() time.Time) DriveTokenOption {
	return func(s *DriveTokenService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithDriveHTTPClient overrides the HTTP client used for refresh exchanges.
func WithDriveHTTPClient(client *http.Client) DriveTokenOption {
	return func(s *DriveTokenService) {
		if client != nil {
			s.client = client
		}
	}
}

// DriveTokenService owns the external account store and the OAuth token
// refresh flow for the supported drive providers.
type DriveTokenService struct {
	db        *gorm.DB
	providers *drive.Registry
	client    *http.Client
	now       func() time.Time
	log       *zap.Logger

	// Serialises refreshes per (user, provider) within this process so two
	// concurrent requests do not race the provider's refresh endpoint.
	// Cross-process refreshes still follow last-write-wins.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDriveTokenService constructs a DriveTokenService with the provided dependencies.
func NewDriveTokenService(db *gorm.DB, providers *drive.Registry, opts ...DriveTokenOption) (*DriveTokenService, error) {
	if db == nil {
		return nil, errors.New("drive token service: db is required")
	}
	if providers == nil {
		return nil, errors.New("drive token service: provider registry is required")
	}

	service := &DriveTokenService{
		db:        db,
		providers: providers,
		client:    &http.Client{Timeout: refreshTimeout},
		now:       time.Now,
		log:       logger.WithModule("drive"),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// SaveExternalAccountInput describes a fresh OAuth grant to persist.
type SaveExternalAccountInput struct {
	UserID       string
	Provider     string
	ProviderID   string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until the access token expires
}

// SaveExternalAccount upserts the (user, provider) credential record. Exactly
// one row exists per pair; a second grant updates it in place.
func (s *DriveTokenService) SaveExternalAccount(ctx context.Context, input SaveExternalAccountInput) (*models.ExternalAccount, error) {
	ctx = ensureContext(ctx)

	if _, ok := s.providers.Get(input.Provider); !ok {
		return nil, ErrUnknownProvider
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.New("drive token service: user id is required")
	}
	if strings.TrimSpace(input.AccessToken) == "" {
		return nil, errors.New("drive token service: access token is required")
	}

	account := &models.ExternalAccount{
		UserID:       input.UserID,
		Provider:     input.Provider,
		ProviderID:   input.ProviderID,
		AccessToken:  input.AccessToken,
		RefreshToken: input.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(input.ExpiresIn) * time.Second),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider_id", "access_token", "refresh_token", "expires_at", "updated_at",
		}),
	}).Create(account).Error
	if err != nil {
		return nil, fmt.Errorf("drive token service: upsert account: %w", err)
	}

	return account, nil
}

// GetAccount loads the stored external account for the (user, provider) pair.
func (s *DriveTokenService) GetAccount(ctx context.Context, userID, provider string) (*models.ExternalAccount, error) {
	ctx = ensureContext(ctx)

	var account models.ExternalAccount
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDriveCredential
		}
		return nil, fmt.Errorf("drive token service: load account: %w", err)
	}
	return &account, nil
}

// DeleteAccount unlinks the (user, provider) credential.
func (s *DriveTokenService) DeleteAccount(ctx context.Context, userID, provider string) error {
	ctx = ensureContext(ctx)

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&models.ExternalAccount{})
	if res.Error != nil {
		return fmt.Errorf("drive token service: delete account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoDriveCredential
	}
	return nil
}

// GetValidAccessToken returns a usable access token for the (user, provider)
// pair, refreshing it through the provider's token endpoint when needed.
// Every failure path degrades to ErrNoDriveCredential: no linked account, no
// refresh token, or a failed refresh exchange. A failed refresh never mutates
// the stored record.
func (s *DriveTokenService) GetValidAccessToken(ctx context.Context, userID, provider string) (string, error) {
	ctx = ensureContext(ctx)

	p, ok := s.providers.Get(provider)
	if !ok {
		return "", ErrUnknownProvider
	}

	unlock := s.lock(userID, provider)
	defer unlock()

	account, err := s.GetAccount(ctx, userID, provider)
	if err != nil {
		return "", err
	}

	if account.ExpiresAt.After(s.now().Add(tokenExpirySkew)) {
		return account.AccessToken, nil
	}

	if strings.TrimSpace(account.RefreshToken) == "" {
		return "", ErrNoDriveCredential
	}

	refreshed, err := s.refresh(ctx, p, account.RefreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(provider, "failure").Inc()
		s.log.Warn("token refresh failed",
			zap.String("provider", provider),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return "", ErrNoDriveCredential
	}
	metrics.TokenRefreshes.WithLabelValues(provider, "success").Inc()

	updates := map[string]any{
		"access_token": refreshed.AccessToken,
		"expires_at":   s.now().Add(time.Duration(refreshed.ExpiresIn) * time.Second),
	}
	// Some providers do not rotate the refresh token; keep the old one then.
	if refreshed.RefreshToken != "" {
		updates["refresh_token"] = refreshed.RefreshToken
	}

	if err := s.db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return "", fmt.Errorf("drive token service: persist refreshed token: %w", err)
	}

	return refreshed.AccessToken, nil
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *DriveTokenService) refresh(ctx context.Context, p drive.Provider, refreshToken string) (*refreshResponse, error) {
	form := url.Values{}
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("refresh endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload refreshResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, errors.New("refresh response missing access_token")
	}

	return &payload, nil
}

func (s *DriveTokenService) lock(userID, provider string) func() {
	key := userID + "/" + provider

	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
