package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
)

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()
	property := &domain.Property{ID: 9, OwnerID: 2, Title: "Studio"}
	student := &domain.User{ID: 5, Username: "aina", Role: domain.RoleStudent}
	landlord := &domain.User{ID: 2, Username: "lim", Role: domain.RoleOwner}

	t.Run("StudentWritesToOwner", func(t *testing.T) {
		cr, pr, ur := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo)
		svc := NewChatService(cr, pr, ur, nil)

		pr.On("GetByID", ctx, int32(9)).Return(property, nil)
		ur.On("GetByID", ctx, int32(2)).Return(landlord, nil)
		cr.On("Create", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
			return m.SenderID == 5 && m.ReceiverID == 2 && *m.PropertyID == 9 && m.Message == "Is it still available?"
		})).Return(nil)

		m, err := svc.SendMessage(ctx, tenant, 9, 2, "  Is it still available?  ")
		require.NoError(t, err)
		assert.Equal(t, int32(2), m.ReceiverID)
		cr.AssertExpectations(t)
	})

	t.Run("OwnerRepliesToStudent", func(t *testing.T) {
		cr, pr, ur := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo)
		svc := NewChatService(cr, pr, ur, nil)

		pr.On("GetByID", ctx, int32(9)).Return(property, nil)
		ur.On("GetByID", ctx, int32(5)).Return(student, nil)
		cr.On("Create", ctx, mock.AnythingOfType("*domain.ChatMessage")).Return(nil)

		m, err := svc.SendMessage(ctx, owner, 9, 5, "Yes")
		require.NoError(t, err)
		assert.Equal(t, int32(5), m.ReceiverID)
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		cr, pr, ur := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo)
		svc := NewChatService(cr, pr, ur, nil)

		pr.On("GetByID", ctx, int32(9)).Return(property, nil)
		ur.On("GetByID", ctx, int32(2)).Return(landlord, nil)

		_, err := svc.SendMessage(ctx, tenant, 9, 2, "   ")
		var v *domain.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Contains(t, v.Fields, "message")
		cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("StudentToStudentForbidden", func(t *testing.T) {
		cr, pr, ur := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo)
		svc := NewChatService(cr, pr, ur, nil)

		pr.On("GetByID", ctx, int32(9)).Return(property, nil)
		ur.On("GetByID", ctx, int32(6)).Return(&domain.User{ID: 6, Role: domain.RoleStudent}, nil)

		_, err := svc.SendMessage(ctx, tenant, 9, 6, "hi")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("GuestForbidden", func(t *testing.T) {
		cr, pr, ur := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo)
		svc := NewChatService(cr, pr, ur, nil)

		_, err := svc.SendMessage(ctx, domain.Caller{}, 9, 2, "hi")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		pr.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestChatService_Thread(t *testing.T) {
	ctx := context.Background()
	cr, pr, ur, images := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo), new(MockImageStore)
	svc := NewChatService(cr, pr, ur, images)

	pr.On("GetByID", ctx, int32(9)).Return(&domain.Property{ID: 9, OwnerID: 2, MainImageKey: "properties/a.jpg"}, nil)
	ur.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Role: domain.RoleOwner}, nil)
	images.On("URL", ctx, "properties/a.jpg").Return("/media/properties/a.jpg", nil)
	cr.On("ListThread", ctx, int32(9), int32(5), int32(2)).Return([]domain.ChatMessage{
		{ID: 1, SenderID: 5, ReceiverID: 2},
		{ID: 2, SenderID: 2, ReceiverID: 5},
	}, nil)
	cr.On("MarkThreadRead", ctx, int32(9), int32(5), int32(2)).Return(int64(1), nil)

	thread, err := svc.Thread(ctx, tenant, 9, 2)
	require.NoError(t, err)
	assert.Equal(t, "/media/properties/a.jpg", thread.Property.MainImageURL)
	assert.False(t, thread.Messages[0].IsRead, "sent messages keep their state")
	assert.True(t, thread.Messages[1].IsRead)
}

func TestChatService_RecentChats(t *testing.T) {
	ctx := context.Background()
	cr, pr, ur, images := new(MockChatRepo), new(MockPropertyRepo), new(MockUserRepo), new(MockImageStore)
	svc := NewChatService(cr, pr, ur, images)

	pid := int32(9)
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	cr.On("ListForUser", ctx, int32(5)).Return([]domain.ChatMessage{
		{ID: 3, SenderID: 2, ReceiverID: 5, PropertyID: &pid, Message: "newest", Timestamp: base.Add(2 * time.Minute), PropertyTitle: "Studio", PropertyImageKey: "properties/a.jpg"},
		{ID: 2, SenderID: 5, ReceiverID: 2, PropertyID: &pid, Message: "older", Timestamp: base.Add(time.Minute)},
		{ID: 1, SenderID: 2, ReceiverID: 5, Message: "general", Timestamp: base},
	}, nil)
	images.On("URL", ctx, "properties/a.jpg").Return("/media/properties/a.jpg", nil)

	summaries, err := svc.RecentChats(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "newest", summaries[0].LastMessage)
	require.NotNil(t, summaries[0].PropertyMainImage)
	assert.Equal(t, "/media/properties/a.jpg", *summaries[0].PropertyMainImage)
	assert.Equal(t, domain.GeneralChatTitle, summaries[1].PropertyTitle)
	assert.Nil(t, summaries[1].PropertyMainImage)

	_, err = svc.RecentChats(ctx, domain.Caller{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
