package handler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"rubika-guard/internal/metrics"
	"rubika-guard/internal/models"
	"rubika-guard/internal/transport"
)

func TestSpamMessageDeletedWithoutCounting(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	spamDeletes := metrics.MessageDeleteCount.WithLabelValues("spam")
	before := testutil.ToFloat64(spamDeletes)

	h.handleMessage(context.Background(), groupText("u1", "m1", strings.Repeat("22.", 16)))

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Empty(client.sent)
	assert.Equal(before+1, testutil.ToFloat64(spamDeletes))

	// spam terminates the pipeline before the message counter stage
	rec, _ := h.store.GetUser("u1")
	assert.Zero(rec.MessagesCount)
}

func TestFailedSpamDeleteNotCounted(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	client.deleteErr = errors.New("service unavailable")
	h := newTestHandler(t, client)
	spamDeletes := metrics.MessageDeleteCount.WithLabelValues("spam")
	before := testutil.ToFloat64(spamDeletes)

	h.handleMessage(context.Background(), groupText("u1", "m1", strings.Repeat("22.", 16)))

	assert.Empty(client.deleted)
	assert.Equal(before, testutil.ToFloat64(spamDeletes))
}

func TestMutedSenderLosesMessage(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.mutes.Mute("u1", 5))

	h.handleMessage(context.Background(), groupText("u1", "m1", "hello"))

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Empty(client.sent)
	rec, _ := h.store.GetUser("u1")
	assert.Zero(rec.MessagesCount)
}

func TestTextMessageIncrementsCounter(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	ctx := context.Background()

	h.handleMessage(ctx, groupText("u1", "m1", "hello"))
	h.handleMessage(ctx, groupText("u1", "m2", "again"))

	rec, _ := h.store.GetUser("u1")
	assert.Equal(2, rec.MessagesCount)
	assert.Empty(client.deleted)
}

func TestMediaMessageDoesNotIncrementCounter(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)

	h.handleMessage(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Message:  transport.Message{ID: "m1", Type: transport.MessageTypeImage, SenderID: "u1"},
	})

	_, ok := h.store.GetUser("u1")
	assert.False(ok)
}

func TestLinkDeletedWhenStrictOff(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.store.UpdateUser("u1", func(rec *models.UserRecord) { rec.Name = "Sara" }))

	h.handleMessage(context.Background(), groupText("u1", "m1", "join https://example.com now"))

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Empty(client.banned)
	assert.Len(client.sent, 1)
	assert.Equal(tr("link_deleted"), client.sent[0].Text)

	// a plain link deletion leaves the record intact
	_, ok := h.store.GetUser("u1")
	assert.True(ok)
}

func TestLinkBansNonAdminWhenStrictOn(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.store.SetStrictMode(true))
	assert.NoError(h.store.UpdateUser("u1", func(rec *models.UserRecord) { rec.Name = "Sara" }))

	h.handleMessage(context.Background(), groupText("u1", "m1", "rubika.ir/spamgroup"))

	assert.Equal([]string{"u1"}, client.banned)
	assert.Len(client.sent, 1)
	assert.Equal(tr("link_strict_banned"), client.sent[0].Text)

	// a strict-mode ban erases the record
	_, ok := h.store.GetUser("u1")
	assert.False(ok)
}

func TestLinkExemptsAdminWhenStrictOn(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	client.admins["u1"] = true
	h := newTestHandler(t, client)
	assert.NoError(h.store.SetStrictMode(true))

	h.handleMessage(context.Background(), groupText("u1", "m1", "http://example.com"))

	assert.Empty(client.banned)
	assert.Empty(client.deleted)
	assert.Empty(client.sent)
}

func TestHygieneViolationDeleted(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)

	h.handleMessage(context.Background(), groupText("u1", "m1", "hid​den"))

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Len(client.sent, 1)
	assert.Equal(tr("hygiene_deleted"), client.sent[0].Text)
}

func TestFilteredMediaDeleted(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.store.SetFilter(models.FilterPhoto, true))

	h.handleMessage(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Message:  transport.Message{ID: "m1", Type: transport.MessageTypeImage, SenderID: "u1"},
	})

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Len(client.sent, 1)
}

func TestUnfilteredMediaPasses(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)

	h.handleMessage(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Message:  transport.Message{ID: "m1", Type: transport.MessageTypeVideo, SenderID: "u1"},
	})

	assert.Empty(client.deleted)
	assert.Empty(client.sent)
}

func TestFilteredStoryDeleted(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.store.SetFilter(models.FilterStory, true))

	h.handleMessage(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Message: transport.Message{
			ID:       "m1",
			Type:     transport.MessageTypeFile,
			SenderID: "u1",
			FileMime: "video/mp4",
			IsStory:  true,
		},
	})

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Len(client.sent, 1)
	assert.Equal(tr("story_deleted"), client.sent[0].Text)
}

func TestFilteredFileDeleted(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)
	assert.NoError(h.store.SetFilter(models.FilterOtherFiles, true))

	h.handleMessage(context.Background(), transport.Update{
		ObjectID: testGroupID,
		Message: transport.Message{
			ID:       "m1",
			Type:     transport.MessageTypeFile,
			SenderID: "u1",
			FileMime: "application/pdf",
		},
	})

	assert.Equal([][]string{{"m1"}}, client.deleted)
	assert.Len(client.sent, 1)
	assert.Equal(tr("other_files_deleted"), client.sent[0].Text)
}

func TestPrivateMessageSkipsContentPolicies(t *testing.T) {
	assert := assert.New(t)

	client := newFakeClient()
	h := newTestHandler(t, client)

	// ObjectID equal to the sender marks a one-to-one conversation
	h.handleMessage(context.Background(), transport.Update{
		ObjectID: "u1",
		Message: transport.Message{
			ID:       "m1",
			Type:     transport.MessageTypeText,
			Text:     "look at https://example.com",
			SenderID: "u1",
		},
	})

	assert.Empty(client.deleted)
	assert.Empty(client.banned)
	assert.Len(client.sent, 1)
	assert.Equal(tr("dm_usage"), client.sent[0].Text)
}
