// Package transport defines the narrow capability set the moderation core
// needs from the chat platform. The core never talks to the wire directly;
// it only sees this interface, which keeps the pipeline testable against a
// fake and the platform binding swappable.
package transport

import "context"

// Message kinds as reported by the platform.
const (
	MessageTypeText  = "Text"
	MessageTypeGif   = "Gif"
	MessageTypeImage = "Image"
	MessageTypeVoice = "Voice"
	MessageTypeVideo = "Video"
	MessageTypeFile  = "File"
)

// Admin role actions for SetAdminRole.
const (
	AdminActionGrant  = "SetAdmin"
	AdminActionRevoke = "UnsetAdmin"
)

// Pin actions for PinMessage.
const (
	PinActionPin   = "Pin"
	PinActionUnpin = "Unpin"
)

// Membership event kinds.
const (
	EventAddMembers    = "AddGroupMembers"
	EventRemoveMembers = "RemoveGroupMembers"
)

// Message is one message as delivered by the platform.
type Message struct {
	ID               string
	Type             string
	Text             string
	SenderID         string
	ReplyToMessageID string
	FileMime         string
	IsStory          bool
}

// GroupEvent is a membership change inside a group.
type GroupEvent struct {
	Type      string
	MemberIDs []string
}

// Update is one classified incoming event. Exactly one of Message or Event
// carries the payload; Event is non-nil for membership changes.
type Update struct {
	// ObjectID identifies the conversation: a group GUID, or the sender's
	// own GUID for a private one-to-one chat.
	ObjectID string
	Message  Message
	Event    *GroupEvent
}

// IsPrivate reports whether the update belongs to a one-to-one conversation.
func (u Update) IsPrivate() bool {
	return u.ObjectID == u.Message.SenderID
}

// UserInfo is the subset of profile data the core needs.
type UserInfo struct {
	FirstName string
	LastName  string
}

// DisplayName joins first and last name the way the platform renders them.
func (u UserInfo) DisplayName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// MessageRef identifies a sent message.
type MessageRef struct {
	ID string
}

// Identity is the running bot's own identity, used for self-message
// suppression and welcome text.
type Identity struct {
	UserID    string
	FirstName string
}

// Client is the transport capability set consumed by the moderation core.
// DeleteMessages must honor the deadline on its context; the other calls are
// expected to apply their own sane upper bounds.
type Client interface {
	SendMessage(ctx context.Context, target, text, replyTo string) (MessageRef, error)
	DeleteMessages(ctx context.Context, target string, messageIDs []string) error
	GetUserInfo(ctx context.Context, userID string) (UserInfo, error)
	IsAdmin(ctx context.Context, target, userID string) (bool, error)
	BanMember(ctx context.Context, target, userID string) error
	SetAdminRole(ctx context.Context, target, userID, action string) error
	PinMessage(ctx context.Context, target, messageID, action string) error
	GetMessagesByID(ctx context.Context, target string, messageIDs []string) ([]Message, error)
	JoinGroup(ctx context.Context, inviteLink string) error
	Me() Identity
}
