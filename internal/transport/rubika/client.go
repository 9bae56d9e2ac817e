// Package rubika implements the transport capability set against the Rubika
// bot HTTP API.
package rubika

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"rubika-guard/internal/transport"
)

const (
	defaultRequestTimeout = 10 * time.Second

	// userInfoCacheSize bounds the user-info cache; join bursts re-resolve
	// the same users, so entries are kept for a short TTL.
	userInfoCacheSize = 1024
	userInfoCacheTTL  = 10 * time.Minute
)

// Client talks to the Rubika bot API over HTTP.
type Client struct {
	apiBase  string
	token    string
	http     *http.Client
	pollHTTP *http.Client
	identity transport.Identity

	userCache *lru.LRU[string, transport.UserInfo]
}

// NewClient builds a client and resolves the bot's own identity.
func NewClient(ctx context.Context, apiBase, token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	c := &Client{
		apiBase: apiBase,
		token:   token,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		// Long-poll requests outlive the shared timeout; their deadline
		// comes from the request context instead.
		pollHTTP:  &http.Client{},
		userCache: lru.NewLRU[string, transport.UserInfo](userInfoCacheSize, nil, userInfoCacheTTL),
	}

	var me struct {
		Bot struct {
			BotID     string `json:"bot_id"`
			FirstName string `json:"first_name"`
		} `json:"bot"`
	}
	if err := c.call(ctx, "getMe", map[string]any{}, &me); err != nil {
		return nil, fmt.Errorf("failed to get bot identity: %w", err)
	}
	c.identity = transport.Identity{
		UserID:    me.Bot.BotID,
		FirstName: me.Bot.FirstName,
	}

	return c, nil
}

// apiResponse is the envelope every Rubika bot API method returns.
type apiResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// call posts a method to the API and decodes the data envelope into out.
// A nil out discards the response payload.
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	return c.doCall(ctx, c.http, method, payload, out)
}

// pollCall is call over the timeout-free client, for long-poll requests.
func (c *Client) pollCall(ctx context.Context, method string, payload any, out any) error {
	return c.doCall(ctx, c.pollHTTP, method, payload, out)
}

func (c *Client) doCall(ctx context.Context, httpClient *http.Client, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(raw))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if envelope.Status != "OK" {
		return fmt.Errorf("%s returned status %q", method, envelope.Status)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", method, err)
		}
	}
	return nil
}

// Me returns the bot's own identity.
func (c *Client) Me() transport.Identity {
	return c.identity
}

// SendMessage posts text to a chat, optionally as a reply.
func (c *Client) SendMessage(ctx context.Context, target, text, replyTo string) (transport.MessageRef, error) {
	payload := map[string]any{
		"chat_id": target,
		"text":    text,
	}
	if replyTo != "" {
		payload["reply_to_message_id"] = replyTo
	}

	var data struct {
		MessageID string `json:"message_id"`
	}
	if err := c.call(ctx, "sendMessage", payload, &data); err != nil {
		return transport.MessageRef{}, err
	}
	return transport.MessageRef{ID: data.MessageID}, nil
}

// DeleteMessages removes messages from a chat. The caller's context deadline
// bounds the whole call.
func (c *Client) DeleteMessages(ctx context.Context, target string, messageIDs []string) error {
	return c.call(ctx, "deleteMessages", map[string]any{
		"chat_id":     target,
		"message_ids": messageIDs,
	}, nil)
}

// GetUserInfo looks up a user's profile, served from a short-lived cache.
func (c *Client) GetUserInfo(ctx context.Context, userID string) (transport.UserInfo, error) {
	if info, ok := c.userCache.Get(userID); ok {
		return info, nil
	}

	var data struct {
		User struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"user"`
	}
	if err := c.call(ctx, "getUserInfo", map[string]any{"user_id": userID}, &data); err != nil {
		return transport.UserInfo{}, err
	}

	info := transport.UserInfo{
		FirstName: data.User.FirstName,
		LastName:  data.User.LastName,
	}
	c.userCache.Add(userID, info)
	return info, nil
}

// IsAdmin reports whether the user is an admin of the group.
func (c *Client) IsAdmin(ctx context.Context, target, userID string) (bool, error) {
	var data struct {
		InChatMembers []struct {
			MemberID string `json:"member_id"`
		} `json:"in_chat_members"`
	}
	if err := c.call(ctx, "getGroupAdminMembers", map[string]any{"chat_id": target}, &data); err != nil {
		return false, err
	}

	for _, member := range data.InChatMembers {
		if member.MemberID == userID {
			return true, nil
		}
	}
	return false, nil
}

// BanMember removes a user from the group.
func (c *Client) BanMember(ctx context.Context, target, userID string) error {
	return c.call(ctx, "banGroupMember", map[string]any{
		"chat_id": target,
		"user_id": userID,
	}, nil)
}

// SetAdminRole grants or revokes admin rights for a user.
func (c *Client) SetAdminRole(ctx context.Context, target, userID, action string) error {
	return c.call(ctx, "setGroupAdmin", map[string]any{
		"chat_id": target,
		"user_id": userID,
		"action":  action,
	}, nil)
}

// PinMessage pins or unpins a message.
func (c *Client) PinMessage(ctx context.Context, target, messageID, action string) error {
	return c.call(ctx, "setPinMessage", map[string]any{
		"chat_id":    target,
		"message_id": messageID,
		"action":     action,
	}, nil)
}

// GetMessagesByID fetches messages by their IDs, used to resolve the author
// of a replied-to message.
func (c *Client) GetMessagesByID(ctx context.Context, target string, messageIDs []string) ([]transport.Message, error) {
	var data struct {
		Messages []rawMessage `json:"messages"`
	}
	if err := c.call(ctx, "getMessagesById", map[string]any{
		"chat_id":     target,
		"message_ids": messageIDs,
	}, &data); err != nil {
		return nil, err
	}

	messages := make([]transport.Message, 0, len(data.Messages))
	for _, m := range data.Messages {
		messages = append(messages, m.toMessage())
	}
	return messages, nil
}

// JoinGroup joins a group via its invite link.
func (c *Client) JoinGroup(ctx context.Context, inviteLink string) error {
	return c.call(ctx, "joinGroup", map[string]any{"invite_link": inviteLink}, nil)
}
