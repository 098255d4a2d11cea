package service

import (
	"context"
	"errors"
	"strings"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

const (
	maxChatTextLen  = 500
	chatHistorySize = 200
)

// AppendChatInput is the payload for one live-chat message.
type AppendChatInput struct {
	Author   string
	Text     string
	ImageURL string
}

// ChatService provides the transient live-chat log: screened appends, a
// bounded history window, and pin management.
type ChatService struct {
	chatRepo repository.ChatRepository
	filter   *FilterService
}

// NewChatService returns a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, filter *FilterService) *ChatService {
	return &ChatService{chatRepo: chatRepo, filter: filter}
}

// AppendMessage validates, screens and stores one chat message.
func (s *ChatService) AppendMessage(ctx context.Context, in AppendChatInput) (*models.ChatMessage, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && in.ImageURL == "" {
		return nil, models.NewValidationError("message text is required")
	}
	if len(text) > maxChatTextLen {
		return nil, models.NewValidationError("message too long (max 500 characters)")
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = "anon"
	}

	if err := s.filter.Check(ctx, text, "chat"); err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		ID:        newID(),
		Author:    author,
		Text:      text,
		ImageURL:  in.ImageURL,
		CreatedAt: nowUnix(),
	}
	if err := s.chatRepo.Append(ctx, message); err != nil {
		return nil, models.NewStorageError("append chat message", err)
	}
	return message, nil
}

// History returns the most recent messages, oldest first.
func (s *ChatService) History(ctx context.Context) ([]*models.ChatMessage, error) {
	messages, err := s.chatRepo.History(ctx, chatHistorySize)
	if err != nil {
		return nil, models.NewStorageError("load chat history", err)
	}
	return messages, nil
}

// SetPinned pins or unpins a message. Pinned messages are exempt from
// retention until unpinned.
func (s *ChatService) SetPinned(ctx context.Context, id string, pinned bool) (*models.ChatMessage, error) {
	if err := s.chatRepo.SetPinned(ctx, id, pinned); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("chat message", id)
		}
		return nil, models.NewStorageError("pin chat message", err)
	}
	message, err := s.chatRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewStorageError("load chat message", err)
	}
	return message, nil
}
