package service

import (
	"context"
	"fmt"
	"strings"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
	"unistay-backend/internal/storage"
)

type chatService struct {
	chatRepo     repository.ChatRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	images       storage.ImageStore
}

func NewChatService(
	chatRepo repository.ChatRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	images storage.ImageStore,
) ChatService {
	return &chatService{
		chatRepo:     chatRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		images:       images,
	}
}

// participants loads both ends of a thread and checks the caller may take part in it:
// an owner talks to students about their property, a student talks to the property's owner.
func (s *chatService) participants(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32) (*domain.Property, *domain.User, error) {
	if !caller.IsAuthenticated() {
		return nil, nil, domain.ErrForbidden
	}
	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	other, err := s.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case caller.IsSuperuser:
	case p.OwnerID == caller.UserID && other.Role == domain.RoleStudent:
	case caller.Role == domain.RoleStudent && other.ID == p.OwnerID:
	default:
		return nil, nil, domain.ErrForbidden
	}
	return p, other, nil
}

func (s *chatService) Thread(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32) (*domain.ChatThread, error) {
	p, other, err := s.participants(ctx, caller, propertyID, otherUserID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.chatRepo.ListThread(ctx, propertyID, caller.UserID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat thread: %w", err)
	}
	n, err := s.chatRepo.MarkThreadRead(ctx, propertyID, caller.UserID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	if n > 0 {
		for i := range msgs {
			if msgs[i].ReceiverID == caller.UserID {
				msgs[i].IsRead = true
			}
		}
		logger.FromContext(ctx).Debug("Marked chat messages read", "propertyID", propertyID, "count", n)
	}

	p.MainImageURL = imageURL(ctx, s.images, p.MainImageKey)
	return &domain.ChatThread{Property: p, OtherUser: other, Messages: msgs}, nil
}

func (s *chatService) SendMessage(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32, message string) (*domain.ChatMessage, error) {
	p, other, err := s.participants(ctx, caller, propertyID, otherUserID)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, (&domain.ValidationError{}).Add("message", "message cannot be empty").OrNil()
	}

	receiverID := p.OwnerID
	if p.OwnerID == caller.UserID {
		receiverID = other.ID
	}
	if receiverID == caller.UserID {
		return nil, domain.NewValidationError("You cannot send a message to yourself.")
	}

	m := &domain.ChatMessage{
		SenderID:   caller.UserID,
		ReceiverID: receiverID,
		PropertyID: &p.ID,
		Message:    message,
	}
	if err := s.chatRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	logger.InfoContext(ctx, "Chat message sent", "messageID", m.ID, "propertyID", p.ID, "receiverID", receiverID)
	return m, nil
}

func (s *chatService) RecentChats(ctx context.Context, caller domain.Caller) ([]domain.ConversationSummary, error) {
	if !caller.IsAuthenticated() {
		return nil, domain.ErrForbidden
	}
	msgs, err := s.chatRepo.ListForUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	summaries := domain.RecentConversations(caller.UserID, msgs)
	for i := range summaries {
		if url := imageURL(ctx, s.images, summaries[i].PropertyImageKey); url != "" {
			summaries[i].PropertyMainImage = &url
		}
	}
	return summaries, nil
}
