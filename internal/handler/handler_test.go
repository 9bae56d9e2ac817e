package handler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"rubika-guard/internal/config"
	"rubika-guard/internal/models"
	"rubika-guard/internal/storage"
	"rubika-guard/internal/transport"
)

const (
	testGroupID = "g0_group"
	testBotID   = "b0_bot"
)

type sentMessage struct {
	Target  string
	Text    string
	ReplyTo string
}

// fakeClient is an in-memory transport.Client recording every call.
type fakeClient struct {
	identity transport.Identity
	admins   map[string]bool
	users    map[string]transport.UserInfo
	messages map[string]transport.Message

	sent        []sentMessage
	deleted     [][]string
	banned      []string
	roleActions []string
	pinned      []string
	joined      []string

	banErr    error
	deleteErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		identity: transport.Identity{UserID: testBotID, FirstName: "Guard"},
		admins:   make(map[string]bool),
		users:    make(map[string]transport.UserInfo),
		messages: make(map[string]transport.Message),
	}
}

func (f *fakeClient) SendMessage(_ context.Context, target, text, replyTo string) (transport.MessageRef, error) {
	f.sent = append(f.sent, sentMessage{Target: target, Text: text, ReplyTo: replyTo})
	return transport.MessageRef{ID: "sent"}, nil
}

func (f *fakeClient) DeleteMessages(_ context.Context, _ string, messageIDs []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageIDs)
	return nil
}

func (f *fakeClient) GetUserInfo(_ context.Context, userID string) (transport.UserInfo, error) {
	return f.users[userID], nil
}

func (f *fakeClient) IsAdmin(_ context.Context, _, userID string) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeClient) BanMember(_ context.Context, _, userID string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.banned = append(f.banned, userID)
	return nil
}

func (f *fakeClient) SetAdminRole(_ context.Context, _, userID, action string) error {
	f.roleActions = append(f.roleActions, userID+":"+action)
	return nil
}

func (f *fakeClient) PinMessage(_ context.Context, _, messageID, action string) error {
	f.pinned = append(f.pinned, messageID+":"+action)
	return nil
}

func (f *fakeClient) GetMessagesByID(_ context.Context, _ string, messageIDs []string) ([]transport.Message, error) {
	var out []transport.Message
	for _, id := range messageIDs {
		if msg, ok := f.messages[id]; ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeClient) JoinGroup(_ context.Context, inviteLink string) error {
	f.joined = append(f.joined, inviteLink)
	return nil
}

func (f *fakeClient) Me() transport.Identity {
	return f.identity
}

func newTestHandler(t *testing.T, client *fakeClient) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Bot.GroupID = testGroupID
	cfg.Moderation.Workers = 1
	cfg.Moderation.SpamDeleteTimeoutMs = 500

	store := storage.NewStore(filepath.Join(t.TempDir(), "bot_data.json"))
	return New(cfg, client, store, models.NewMuteList())
}

func groupText(sender, id, text string) transport.Update {
	return transport.Update{
		ObjectID: testGroupID,
		Message: transport.Message{
			ID:       id,
			Type:     transport.MessageTypeText,
			Text:     text,
			SenderID: sender,
		},
	}
}

func tr(key string) string {
	return models.GetTranslation(models.LangPersian, key)
}

func TestDispatchIgnoresOtherGroups(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)

	update := groupText("u1", "m1", "hello")
	update.ObjectID = "some_other_group"
	h.dispatch(context.Background(), update)

	assert.Empty(client.sent)
	assert.Empty(client.deleted)
	rec, ok := h.store.GetUser("u1")
	assert.False(ok)
	assert.Zero(rec.MessagesCount)
}

func TestDispatchIgnoresOwnMessages(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)

	h.dispatch(context.Background(), groupText(testBotID, "m1", "https://example.com"))

	assert.Empty(client.sent)
	assert.Empty(client.deleted)
}

func TestWelcomeCreatesZeroedRecord(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	client.users["u1"] = transport.UserInfo{FirstName: "Sara", LastName: "K"}
	h := newTestHandler(t, client)

	h.dispatch(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Event: &transport.GroupEvent{
			Type:      transport.EventAddMembers,
			MemberIDs: []string{"u1"},
		},
	})

	rec, ok := h.store.GetUser("u1")
	assert.True(ok)
	assert.Equal("Sara K", rec.Name)
	assert.NotEmpty(rec.JoinDate)
	assert.Zero(rec.MessagesCount)
	assert.Zero(rec.Warnings)
	assert.Equal(models.RoleMember, rec.Role)

	assert.Len(client.sent, 1)
	assert.Contains(client.sent[0].Text, "Sara K")
	assert.Contains(client.sent[0].Text, "Guard")
}

func TestFarewellKeepsRecord(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.store.UpdateUser("u1", func(rec *models.UserRecord) {
		rec.Name = "Sara"
	}))

	h.dispatch(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Event: &transport.GroupEvent{
			Type:      transport.EventRemoveMembers,
			MemberIDs: []string{"u1"},
		},
	})

	assert.Len(client.sent, 1)
	assert.Contains(client.sent[0].Text, "Sara")

	_, ok := h.store.GetUser("u1")
	assert.True(ok)
}

func TestJoinThenStatsReportsZeroCounters(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	client.users["u1"] = transport.UserInfo{FirstName: "Sara"}
	h := newTestHandler(t, client)
	ctx := context.Background()

	h.dispatch(ctx, transport.Update{
		ObjectID: testGroupID,
		Event: &transport.GroupEvent{
			Type:      transport.EventAddMembers,
			MemberIDs: []string{"u1"},
		},
	})
	client.sent = nil

	h.dispatch(ctx, groupText("u1", "m1", "آمارم"))

	// the stats command itself is a text message and bumps the counter first
	rec, _ := h.store.GetUser("u1")
	assert.Equal(1, rec.MessagesCount)
	assert.Zero(rec.Warnings)

	assert.Len(client.sent, 1)
	assert.Contains(client.sent[0].Text, "Sara")
	assert.Equal("m1", client.sent[0].ReplyTo)
}
