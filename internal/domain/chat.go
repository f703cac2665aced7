package domain

import (
	"sort"
	"strings"
	"time"
)

const GeneralChatTitle = "General Chat"

// ChatParticipant is the denormalized view of a user attached to a message.
type ChatParticipant struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func (p ChatParticipant) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

type ChatMessage struct {
	ID         int32           `json:"id"`
	SenderID   int32           `json:"sender_id"`
	ReceiverID int32           `json:"receiver_id"`
	PropertyID *int32          `json:"property_id"` // nil for general chat
	Message    string          `json:"message"`
	Timestamp  time.Time       `json:"timestamp"`
	IsRead     bool            `json:"is_read"`
	Sender     ChatParticipant `json:"sender"`   // Populated when listing
	Receiver   ChatParticipant `json:"receiver"` // Populated when listing

	PropertyTitle    string `json:"-"`
	PropertyImageKey string `json:"-"`
}

// ConversationSummary is one row of the recent-chats list.
type ConversationSummary struct {
	PropertyID            *int32  `json:"property_id"`
	PropertyTitle         string  `json:"property_title"`
	PropertyMainImage     *string `json:"property_main_image"`
	OtherUserID           int32   `json:"other_user_id"`
	OtherUserUsername     string  `json:"other_user_username"`
	OtherUserFullName     string  `json:"other_user_full_name"`
	LastMessage           string  `json:"last_message"`
	LastMessageTimestamp  string  `json:"last_message_timestamp"`
	LastMessageSenderIsMe bool    `json:"last_message_sender_is_me"`

	PropertyImageKey string `json:"-"`
}

type conversationKey struct {
	hasProperty bool
	propertyID  int32
	otherID     int32
}

// RecentConversations reduces the caller's messages to the newest one per
// (property, other participant) pair, newest conversation first. Messages may
// arrive in any order. A nil property is a key of its own, not a wildcard.
func RecentConversations(callerID int32, msgs []ChatMessage) []ConversationSummary {
	sorted := make([]ChatMessage, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		}
		return sorted[i].ID > sorted[j].ID
	})

	seen := make(map[conversationKey]struct{})
	out := make([]ConversationSummary, 0)
	for _, m := range sorted {
		var other ChatParticipant
		switch callerID {
		case m.SenderID:
			other = m.Receiver
			other.ID = m.ReceiverID
		case m.ReceiverID:
			other = m.Sender
			other.ID = m.SenderID
		default:
			continue
		}
		if other.ID == callerID {
			continue
		}

		key := conversationKey{otherID: other.ID}
		if m.PropertyID != nil {
			key.hasProperty = true
			key.propertyID = *m.PropertyID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		s := ConversationSummary{
			PropertyTitle:         GeneralChatTitle,
			OtherUserID:           other.ID,
			OtherUserUsername:     other.Username,
			OtherUserFullName:     other.DisplayName(),
			LastMessage:           m.Message,
			LastMessageTimestamp:  m.Timestamp.Format(time.RFC3339Nano),
			LastMessageSenderIsMe: m.SenderID == callerID,
		}
		if m.PropertyID != nil {
			id := *m.PropertyID
			s.PropertyID = &id
			if t := strings.TrimSpace(m.PropertyTitle); t != "" {
				s.PropertyTitle = t
			}
			s.PropertyImageKey = m.PropertyImageKey
		}
		out = append(out, s)
	}
	return out
}

// ChatThread is a conversation page between the caller and one other user.
type ChatThread struct {
	Property  *Property
	OtherUser *User
	Messages  []ChatMessage
}
