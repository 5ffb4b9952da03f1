package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
)

// ChatService manages channels and their durable message history. Real-time
// delivery to connected clients is out of scope here.
type ChatService struct {
	db *gorm.DB
}

// NewChatService constructs a ChatService using the provided database handle.
func NewChatService(db *gorm.DB) (*ChatService, error) {
	if db == nil {
		return nil, errors.New("chat service: db is required")
	}
	return &ChatService{db: db}, nil
}

// CreateChannel adds a channel to the workspace. Requires channel:create.
func (s *ChatService) CreateChannel(ctx context.Context, workspaceID, actorID, name, description string) (*models.Channel, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionChannelCreate); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("channel name is required")
	}

	channel := &models.Channel{
		WorkspaceID: workspaceID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedByID: actorID,
	}
	if err := s.db.WithContext(ctx).Create(channel).Error; err != nil {
		return nil, fmt.Errorf("chat service: create channel: %w", err)
	}
	return channel, nil
}

// DeleteChannel removes a channel and its messages. Requires channel:delete.
func (s *ChatService) DeleteChannel(ctx context.Context, workspaceID, actorID, channelID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionChannelDelete); err != nil {
		return err
	}

	channel, err := s.getChannel(ctx, workspaceID, channelID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channel.ID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("chat service: delete messages: %w", err)
		}
		if err := tx.Delete(channel).Error; err != nil {
			return fmt.Errorf("chat service: delete channel: %w", err)
		}
		return nil
	})
}

// ListChannels returns the workspace's channels.
func (s *ChatService) ListChannels(ctx context.Context, workspaceID, actorID string) ([]models.Channel, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}

	var channels []models.Channel
	err := s.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&channels).Error
	if err != nil {
		return nil, fmt.Errorf("chat service: list channels: %w", err)
	}
	return channels, nil
}

// PostMessage appends a message to the channel. Requires message:send; the
// viewer role can read history but not post.
func (s *ChatService) PostMessage(ctx context.Context, workspaceID, actorID, channelID, body string) (*models.Message, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionMessageSend); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewBadRequest("message body is required")
	}

	channel, err := s.getChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ChannelID: channel.ID,
		AuthorID:  actorID,
		Body:      body,
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("chat service: post message: %w", err)
	}
	return message, nil
}

// ListMessages returns channel history, newest first, paginated.
func (s *ChatService) ListMessages(ctx context.Context, workspaceID, actorID, channelID string, page, perPage int) ([]models.Message, int64, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, 0, err
	}
	channel, err := s.getChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var total int64
	base := s.db.WithContext(ctx).Model(&models.Message{}).Where("channel_id = ?", channel.ID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("chat service: count messages: %w", err)
	}

	var messages []models.Message
	err = s.db.WithContext(ctx).
		Preload("Author").
		Where("channel_id = ?", channel.ID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("chat service: list messages: %w", err)
	}
	return messages, total, nil
}

func (s *ChatService) getChannel(ctx context.Context, workspaceID, channelID string) (*models.Channel, error) {
	var channel models.Channel
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, channelID).
		First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("chat service: load channel: %w", err)
	}
	return &channel, nil
}
