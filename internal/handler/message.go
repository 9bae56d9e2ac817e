package handler

import (
	"context"
	"errors"
	"fmt"

	"rubika-guard/internal/logger"
	"rubika-guard/internal/metrics"
	"rubika-guard/internal/rules"
	"rubika-guard/internal/service"
	"rubika-guard/internal/transport"
)

// messageState caches per-message lookups shared across pipeline stages,
// currently just the sender's admin status.
type messageState struct {
	adminChecked bool
	isAdmin      bool
}

// senderIsAdmin resolves the sender's admin status once per message. A
// failed transport check counts as not-admin and suppresses admin commands.
func (h *Handler) senderIsAdmin(ctx context.Context, objectID, userID string, state *messageState) bool {
	if !state.adminChecked {
		isAdmin, err := h.client.IsAdmin(ctx, objectID, userID)
		if err != nil {
			logger.Warningf("Error checking admin status of %s: %v", userID, err)
			isAdmin = false
		}
		state.isAdmin = isAdmin
		state.adminChecked = true
	}
	return state.isAdmin
}

// handleMessage runs the message pipeline. Every stage either passes the
// message on or terminates processing; once a message is deleted or its
// sender banned, no later stage runs.
func (h *Handler) handleMessage(ctx context.Context, update transport.Update) {
	msg := update.Message
	if msg.SenderID == "" || msg.SenderID == h.client.Me().UserID {
		return
	}

	// Stage 1: hang/spam patterns, deleted under a hard time bound
	if msg.Type == transport.MessageTypeText && rules.IsHangMessage(msg.Text) {
		h.deleteSpamMessage(ctx, update.ObjectID, msg.ID)
		return
	}

	// Stage 2: muted senders lose the message, nothing else runs
	if h.mutes.IsMuted(msg.SenderID) {
		h.deleteMessage(ctx, update.ObjectID, msg.ID, "mute")
		return
	}

	// Stage 3: message counter, text only
	if msg.Type == transport.MessageTypeText {
		if err := h.store.IncrementMessages(msg.SenderID); err != nil {
			logger.Warningf("Error persisting message count for %s: %v", msg.SenderID, err)
		}
	}

	state := &messageState{}

	if msg.Type == transport.MessageTypeText && msg.Text != "" {
		// Stage 4: self-service commands
		h.handleSelfServiceCommands(ctx, update)

		// Stage 5: reply-target admin commands
		if msg.ReplyToMessageID != "" {
			if terminal := h.handleReplyCommands(ctx, update, state); terminal {
				return
			}
		}

		// Stage 6: group-wide settings commands
		h.handleSettingsCommands(ctx, update, state)
	}

	// Stage 7: private conversations only get the join-link flow
	if update.IsPrivate() {
		if msg.Type == transport.MessageTypeText {
			h.handleDirectMessage(ctx, update)
		}
		return
	}

	// Stage 8: link policy
	if msg.Type == transport.MessageTypeText && rules.ContainsLink(msg.Text) {
		h.enforceLinkPolicy(ctx, update, state)
		return
	}

	// Stage 9: hygiene policy
	if msg.Type == transport.MessageTypeText && rules.ViolatesHygiene(msg.Text) {
		h.deleteMessage(ctx, update.ObjectID, msg.ID, "hygiene")
		h.announce(ctx, update.ObjectID, h.tr("hygiene_deleted"))
		return
	}

	// Stages 10-12: media, story, and other-file filters
	settings := h.store.Settings()
	if kind, blocked := rules.IsFilteredMedia(msg, settings); blocked {
		h.deleteMessage(ctx, update.ObjectID, msg.ID, string(kind))
		h.announce(ctx, update.ObjectID, fmt.Sprintf(h.tr("media_deleted"), kind))
		return
	}
	if rules.IsFilteredStory(msg, settings) {
		h.deleteMessage(ctx, update.ObjectID, msg.ID, "story")
		h.announce(ctx, update.ObjectID, h.tr("story_deleted"))
		return
	}
	if rules.IsFilteredFile(msg, settings) {
		h.deleteMessage(ctx, update.ObjectID, msg.ID, "other_files")
		h.announce(ctx, update.ObjectID, h.tr("other_files_deleted"))
		return
	}
}

// deleteSpamMessage deletes a hang-pattern message under the configured time
// bound. A timed-out delete is abandoned, not treated as an error.
func (h *Handler) deleteSpamMessage(ctx context.Context, objectID, messageID string) {
	delCtx, cancel := context.WithTimeout(ctx, h.spamDeleteTimeout)
	defer cancel()

	if err := h.client.DeleteMessages(delCtx, objectID, []string{messageID}); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			logger.Warningf("Error deleting spam message %s: %v", messageID, err)
		}
		return
	}
	metrics.MessageDeleteCount.WithLabelValues("spam").Inc()
}

// deleteMessage deletes one message and counts it against the given rule.
// Failed deletions are logged, not counted.
func (h *Handler) deleteMessage(ctx context.Context, objectID, messageID, rule string) {
	if err := h.client.DeleteMessages(ctx, objectID, []string{messageID}); err != nil {
		logger.Warningf("Error deleting message %s: %v", messageID, err)
		return
	}
	metrics.MessageDeleteCount.WithLabelValues(rule).Inc()
}

// enforceLinkPolicy applies the link rule: with strict mode on, non-admin
// senders are banned and their record deleted; otherwise the message is
// deleted and the record left intact. Admins are exempt under strict mode.
func (h *Handler) enforceLinkPolicy(ctx context.Context, update transport.Update, state *messageState) {
	msg := update.Message

	if !h.store.StrictMode() {
		h.deleteMessage(ctx, update.ObjectID, msg.ID, "link")
		h.announce(ctx, update.ObjectID, h.tr("link_deleted"))
		return
	}

	if h.senderIsAdmin(ctx, update.ObjectID, msg.SenderID, state) {
		return
	}

	if err := h.client.BanMember(ctx, update.ObjectID, msg.SenderID); err != nil {
		logger.Warningf("Error banning user %s for link violation: %v", msg.SenderID, err)
		return
	}
	h.announce(ctx, update.ObjectID, h.tr("link_strict_banned"))

	if err := h.store.DeleteUser(msg.SenderID); err != nil {
		logger.Warningf("Error deleting record of banned user %s: %v", msg.SenderID, err)
	}
	service.RecordBan(update.ObjectID, msg.SenderID, "", "link violation in strict mode")
	metrics.BanCount.WithLabelValues("strict_link").Inc()
}
