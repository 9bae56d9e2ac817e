package rubika

import (
	"context"
	"time"

	"rubika-guard/internal/logger"
	"rubika-guard/internal/transport"
)

// rawMessage is the wire shape of one message in the update feed.
type rawMessage struct {
	MessageID        string `json:"message_id"`
	Type             string `json:"type"`
	Text             string `json:"text"`
	AuthorObjectGUID string `json:"author_object_guid"`
	ReplyToMessageID string `json:"reply_to_message_id"`
	FileInline       struct {
		Mime string `json:"mime"`
	} `json:"file_inline"`
	Metadata struct {
		IsStory bool `json:"is_story"`
	} `json:"metadata"`
	EventData struct {
		Type      string   `json:"type"`
		PeerGUIDs []string `json:"peer_guids"`
	} `json:"event_data"`
}

func (m rawMessage) toMessage() transport.Message {
	return transport.Message{
		ID:               m.MessageID,
		Type:             m.Type,
		Text:             m.Text,
		SenderID:         m.AuthorObjectGUID,
		ReplyToMessageID: m.ReplyToMessageID,
		FileMime:         m.FileInline.Mime,
		IsStory:          m.Metadata.IsStory,
	}
}

// rawUpdate is one entry of the getUpdates feed.
type rawUpdate struct {
	Type       string     `json:"type"`
	ChatID     string     `json:"chat_id"`
	NewMessage rawMessage `json:"new_message"`
}

// classify converts a wire update into the core's Update shape. Membership
// changes arrive as messages of type Event; everything else is a message.
func (u rawUpdate) classify() (transport.Update, bool) {
	if u.Type != "NewMessage" {
		return transport.Update{}, false
	}

	update := transport.Update{ObjectID: u.ChatID}

	if u.NewMessage.Type == "Event" {
		eventType := u.NewMessage.EventData.Type
		if eventType != transport.EventAddMembers && eventType != transport.EventRemoveMembers {
			return transport.Update{}, false
		}
		update.Event = &transport.GroupEvent{
			Type:      eventType,
			MemberIDs: u.NewMessage.EventData.PeerGUIDs,
		}
		return update, true
	}

	update.Message = u.NewMessage.toMessage()
	return update, true
}

// Listen long-polls the update feed and delivers classified updates on the
// returned channel. The channel is closed when ctx is canceled. Poll errors
// are logged and retried with a short backoff; no single failure stops the
// feed.
func (c *Client) Listen(ctx context.Context, pollTimeout time.Duration) <-chan transport.Update {
	out := make(chan transport.Update, 64)

	go func() {
		defer close(out)

		var offsetID string
		for {
			if ctx.Err() != nil {
				return
			}

			updates, nextOffset, err := c.getUpdates(ctx, offsetID, pollTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warningf("Error polling updates: %v", err)
				select {
				case <-time.After(3 * time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}
			offsetID = nextOffset

			for _, raw := range updates {
				update, ok := raw.classify()
				if !ok {
					continue
				}
				select {
				case out <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// getUpdates performs one long-poll request against the feed.
func (c *Client) getUpdates(ctx context.Context, offsetID string, pollTimeout time.Duration) ([]rawUpdate, string, error) {
	// The poll request is allowed to hang for the long-poll window plus a
	// margin; the shared client timeout is too tight for it.
	reqCtx, cancel := context.WithTimeout(ctx, pollTimeout+defaultRequestTimeout)
	defer cancel()

	payload := map[string]any{"limit": 100}
	if offsetID != "" {
		payload["offset_id"] = offsetID
	}

	var data struct {
		Updates      []rawUpdate `json:"updates"`
		NextOffsetID string      `json:"next_offset_id"`
	}
	if err := c.pollCall(reqCtx, "getUpdates", payload, &data); err != nil {
		return nil, offsetID, err
	}
	return data.Updates, data.NextOffsetID, nil
}
