package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/app"
	"github.com/uniworkhq/uniwork/internal/models"
	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
	"github.com/uniworkhq/uniwork/pkg/logger"
)

const (
	assistantDefaultTimeout = 10 * time.Second
	assistantHistoryLimit   = 20
	assistantMaxRespBytes   = 1 << 20
)

// assistantFallbackReply is returned when the LLM endpoint is unconfigured or
// unreachable. Asking the assistant never fails a request.
const assistantFallbackReply = "The assistant is unavailable right now. Your message has been saved; please try again in a little while."

// AssistantService stores assistant conversations and relays prompts to an
// external chat-completion endpoint.
type AssistantService struct {
	db     *gorm.DB
	cfg    app.AssistantConfig
	client *http.Client
}

// AssistantOption customises an AssistantService.
type AssistantOption func(*AssistantService)

// WithAssistantHTTPClient overrides the HTTP client used for LLM calls.
func WithAssistantHTTPClient(client *http.Client) AssistantOption {
	return func(s *AssistantService) {
		if client != nil {
			s.client = client
		}
	}
}

// NewAssistantService constructs an AssistantService with the provided dependencies.
func NewAssistantService(db *gorm.DB, cfg app.AssistantConfig, opts ...AssistantOption) (*AssistantService, error) {
	if db == nil {
		return nil, errors.New("assistant service: db is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = assistantDefaultTimeout
	}
	s := &AssistantService{
		db:     db,
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartConversation creates a new conversation for the user in a workspace.
func (s *AssistantService) StartConversation(ctx context.Context, workspaceID, userID, title string) (*models.AssistantConversation, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, userID); err != nil {
		return nil, err
	}

	conversation := &models.AssistantConversation{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Title:       strings.TrimSpace(title),
	}
	if err := s.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, fmt.Errorf("assistant service: create conversation: %w", err)
	}
	return conversation, nil
}

// ListConversations returns the user's conversations in a workspace, newest first.
func (s *AssistantService) ListConversations(ctx context.Context, workspaceID, userID string) ([]models.AssistantConversation, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, userID); err != nil {
		return nil, err
	}

	var conversations []models.AssistantConversation
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("assistant service: list conversations: %w", err)
	}
	return conversations, nil
}

// GetConversation loads a conversation with its messages in order.
func (s *AssistantService) GetConversation(ctx context.Context, workspaceID, userID, conversationID string) (*models.AssistantConversation, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.getConversation(ctx, workspaceID, userID, conversationID, true)
}

// SendMessage appends the user's prompt to a conversation, asks the LLM for a
// reply and stores it. When the endpoint cannot answer, a fallback reply is
// stored instead; the call itself only fails on storage or access errors.
func (s *AssistantService) SendMessage(ctx context.Context, workspaceID, userID, conversationID, content string) (*models.AssistantMessage, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, userID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequest("message content is required")
	}

	conversation, err := s.getConversation(ctx, workspaceID, userID, conversationID, false)
	if err != nil {
		return nil, err
	}

	userMessage := &models.AssistantMessage{
		ConversationID: conversation.ID,
		Role:           models.AssistantRoleUser,
		Content:        content,
	}
	if err := s.db.WithContext(ctx).Create(userMessage).Error; err != nil {
		return nil, fmt.Errorf("assistant service: store message: %w", err)
	}

	history, err := s.recentMessages(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	reply := s.complete(ctx, history)
	assistantMessage := &models.AssistantMessage{
		ConversationID: conversation.ID,
		Role:           models.AssistantRoleAssistant,
		Content:        reply,
	}
	if err := s.db.WithContext(ctx).Create(assistantMessage).Error; err != nil {
		return nil, fmt.Errorf("assistant service: store reply: %w", err)
	}

	// Bump updated_at so ListConversations surfaces active threads first.
	if err := s.db.WithContext(ctx).
		Model(&models.AssistantConversation{}).
		Where("id = ?", conversation.ID).
		Update("updated_at", time.Now()).Error; err != nil {
		logger.WithModule("assistant").Warn("failed to touch conversation", zap.Error(err))
	}

	return assistantMessage, nil
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string                  `json:"model,omitempty"`
	Messages []chatCompletionMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// complete calls the configured chat endpoint and returns the reply text, or
// the fallback reply when the endpoint is unconfigured or misbehaving.
func (s *AssistantService) complete(ctx context.Context, history []models.AssistantMessage) string {
	endpoint := strings.TrimSpace(s.cfg.Endpoint)
	if endpoint == "" {
		return assistantFallbackReply
	}

	log := logger.WithModule("assistant")

	payload := chatCompletionRequest{Model: s.cfg.Model}
	for _, msg := range history {
		payload.Messages = append(payload.Messages, chatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to encode completion request", zap.Error(err))
		return assistantFallbackReply
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to build completion request", zap.Error(err))
		return assistantFallbackReply
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(s.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Warn("completion request failed", zap.Error(err))
		return assistantFallbackReply
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, assistantMaxRespBytes))
	if err != nil {
		log.Warn("failed to read completion response", zap.Error(err))
		return assistantFallbackReply
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("completion endpoint returned an error",
			zap.Int("status", resp.StatusCode))
		return assistantFallbackReply
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Warn("failed to decode completion response", zap.Error(err))
		return assistantFallbackReply
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return assistantFallbackReply
	}
	return decoded.Choices[0].Message.Content
}

func (s *AssistantService) recentMessages(ctx context.Context, conversationID string) ([]models.AssistantMessage, error) {
	var messages []models.AssistantMessage
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(assistantHistoryLimit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("assistant service: load history: %w", err)
	}
	// Reverse into chronological order for the completion payload.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *AssistantService) getConversation(ctx context.Context, workspaceID, userID, conversationID string, withMessages bool) (*models.AssistantConversation, error) {
	query := s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ? AND id = ?", workspaceID, userID, conversationID)
	if withMessages {
		query = query.Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	}

	var conversation models.AssistantConversation
	if err := query.First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("assistant service: load conversation: %w", err)
	}
	return &conversation, nil
}
