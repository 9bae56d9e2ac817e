package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rubika-guard/internal/logger"
	"rubika-guard/internal/metrics"
	"rubika-guard/internal/models"
	"rubika-guard/internal/service"
	"rubika-guard/internal/transport"
)

// Command words. The bot speaks Persian, like the groups it moderates.
const (
	cmdStats          = "آمارم"
	cmdOriginal       = "اصل"
	cmdOriginalPrefix = "اصل "
	cmdBan            = "بن"
	cmdDemote         = "ادمین معمولی"
	cmdSpecial        = "ویژه"
	cmdTitlePrefix    = "لقب "
	cmdMutePrefix     = "سکوت "
	cmdPin            = "پین"
	cmdUnpin          = "آنپین"
	cmdStrictOn       = "سختگیرانه فعال"
	cmdStrictOff      = "سختگیرانه خاموش"
	cmdVoiceCallOn    = "ویسکال فعال"
	cmdVoiceCallOff   = "ویسکال غیرفعال"

	groupInviteLinkPrefix = "https://rubika.ir/g/"
)

// filterToggle describes one settings command toggling a filter flag.
type filterToggle struct {
	kind models.FilterKind
	on   bool
}

// filterCommands maps the paired on/off command words to their filter kinds.
var filterCommands = map[string]filterToggle{
	"فیلتر گیف فعال":    {models.FilterGif, true},
	"فیلتر گیف خاموش":   {models.FilterGif, false},
	"فیلتر استوری فعال":  {models.FilterStory, true},
	"فیلتر استوری خاموش": {models.FilterStory, false},
	"فیلتر عکس فعال":    {models.FilterPhoto, true},
	"فیلتر عکس خاموش":   {models.FilterPhoto, false},
	"فیلتر ویس فعال":    {models.FilterVoice, true},
	"فیلتر ویس خاموش":   {models.FilterVoice, false},
	"فیلتر ویدیو فعال":   {models.FilterVideo, true},
	"فیلتر ویدیو خاموش":  {models.FilterVideo, false},
	"فیلتر سایر فعال":   {models.FilterOtherFiles, true},
	"فیلتر سایر خاموش":  {models.FilterOtherFiles, false},
}

// handleSelfServiceCommands handles commands available to any sender: the
// stats report and registering/echoing one's own original content. The
// reply-target variant of the original echo is resolved in the reply stage.
func (h *Handler) handleSelfServiceCommands(ctx context.Context, update transport.Update) {
	msg := update.Message

	switch {
	case msg.Text == cmdStats:
		metrics.CommandCount.WithLabelValues("stats").Inc()
		h.sendStatsReport(ctx, update)

	case strings.HasPrefix(msg.Text, cmdOriginalPrefix):
		metrics.CommandCount.WithLabelValues("original_set").Inc()
		content := strings.TrimSpace(strings.TrimPrefix(msg.Text, cmdOriginalPrefix))
		if content == "" {
			h.reply(ctx, update.ObjectID, h.tr("original_usage"), msg.ID)
			return
		}
		if err := h.store.UpdateUser(msg.SenderID, func(rec *models.UserRecord) {
			rec.OriginalContent = content
		}); err != nil {
			logger.Warningf("Error persisting original content for %s: %v", msg.SenderID, err)
		}
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("original_saved"), content), msg.ID)

	case msg.Text == cmdOriginal && msg.ReplyToMessageID == "":
		metrics.CommandCount.WithLabelValues("original_echo").Inc()
		rec, _ := h.store.GetUser(msg.SenderID)
		content := rec.OriginalContent
		if content == "" {
			content = h.tr("original_not_registered")
		}
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("original_echo"), content), msg.ID)
	}
}

// sendStatsReport renders the sender's stored record plus a live admin-role
// check as a reply.
func (h *Handler) sendStatsReport(ctx context.Context, update transport.Update) {
	msg := update.Message
	rec, _ := h.store.GetUser(msg.SenderID)

	name := rec.Name
	if name == "" {
		name = h.tr("self_user")
	}
	joinDate := rec.JoinDate
	if joinDate == "" {
		joinDate = h.tr("unknown_date")
	}
	title := rec.Title
	if title == "" {
		title = h.tr("title_none")
	}

	role := h.tr("role_member")
	if isAdmin, err := h.client.IsAdmin(ctx, update.ObjectID, msg.SenderID); err == nil && isAdmin {
		role = h.tr("role_admin")
	}

	original := h.tr("original_not_registered")
	if rec.OriginalContent != "" {
		original = h.tr("original_registered")
	}

	report := fmt.Sprintf(h.tr("stats_report"),
		name, role, title, rec.MessagesCount, rec.Warnings, original, joinDate)
	h.reply(ctx, update.ObjectID, report, msg.ID)
}

// resolveReplyTarget fetches the replied-to message and returns its author.
func (h *Handler) resolveReplyTarget(ctx context.Context, update transport.Update) (string, bool) {
	messages, err := h.client.GetMessagesByID(ctx, update.ObjectID, []string{update.Message.ReplyToMessageID})
	if err != nil {
		logger.Warningf("Error resolving reply target of message %s: %v", update.Message.ID, err)
		return "", false
	}
	if len(messages) == 0 || messages[0].SenderID == "" {
		return "", false
	}
	return messages[0].SenderID, true
}

// handleReplyCommands handles commands scoped to a reply target. The
// original-content echo needs no privileges; everything else requires the
// sender to pass the admin check, whose failure suppresses all of them.
// Returns true when the pipeline must stop (the target was banned).
func (h *Handler) handleReplyCommands(ctx context.Context, update transport.Update, state *messageState) bool {
	msg := update.Message

	targetID, ok := h.resolveReplyTarget(ctx, update)
	if !ok {
		return false
	}

	if msg.Text == cmdOriginal {
		metrics.CommandCount.WithLabelValues("original_echo_target").Inc()
		targetRec, _ := h.store.GetUser(targetID)
		targetName := targetRec.Name
		if targetName == "" {
			targetName = h.tr("unknown_user")
		}
		content := targetRec.OriginalContent
		if content == "" {
			content = h.tr("original_not_registered")
		}
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("original_echo_target"), targetName, content), msg.ID)
		return false
	}

	if !h.senderIsAdmin(ctx, update.ObjectID, msg.SenderID, state) {
		return false
	}

	targetRec, _ := h.store.GetUser(targetID)
	targetName := targetRec.Name
	if targetName == "" {
		targetName = h.tr("unknown_user")
	}

	switch {
	case msg.Text == cmdBan:
		metrics.CommandCount.WithLabelValues("ban").Inc()
		return h.banTarget(ctx, update, targetID, targetName)

	case msg.Text == cmdDemote:
		metrics.CommandCount.WithLabelValues("demote").Inc()
		if err := h.client.SetAdminRole(ctx, update.ObjectID, targetID, transport.AdminActionRevoke); err != nil {
			h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("demote_error"), targetName, err), msg.ID)
			return false
		}
		h.announce(ctx, update.ObjectID, fmt.Sprintf(h.tr("demote_success"), targetName))

	case msg.Text == cmdSpecial:
		metrics.CommandCount.WithLabelValues("promote_special").Inc()
		if err := h.store.UpdateUser(targetID, func(rec *models.UserRecord) {
			rec.Role = models.RoleSpecial
		}); err != nil {
			logger.Warningf("Error persisting role for %s: %v", targetID, err)
		}
		h.announce(ctx, update.ObjectID, fmt.Sprintf(h.tr("promote_special"), targetName))

	case strings.HasPrefix(msg.Text, cmdTitlePrefix):
		metrics.CommandCount.WithLabelValues("title").Inc()
		title := strings.TrimSpace(strings.TrimPrefix(msg.Text, cmdTitlePrefix))
		if title == "" {
			h.reply(ctx, update.ObjectID, h.tr("title_usage"), msg.ID)
			return false
		}
		if err := h.store.UpdateUser(targetID, func(rec *models.UserRecord) {
			rec.Title = title
		}); err != nil {
			logger.Warningf("Error persisting title for %s: %v", targetID, err)
		}
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("title_saved"), targetName, title), msg.ID)

	case strings.HasPrefix(msg.Text, cmdMutePrefix):
		metrics.CommandCount.WithLabelValues("mute").Inc()
		h.muteTarget(ctx, update, targetID, targetName)
	}

	return false
}

// banTarget removes the target from the group and deletes its stored
// record. Transport failure is reported to the chat, not retried.
func (h *Handler) banTarget(ctx context.Context, update transport.Update, targetID, targetName string) bool {
	if err := h.client.BanMember(ctx, update.ObjectID, targetID); err != nil {
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("ban_error"), targetName, err), update.Message.ID)
		return false
	}

	h.announce(ctx, update.ObjectID, fmt.Sprintf(h.tr("ban_success"), targetName))
	if err := h.store.DeleteUser(targetID); err != nil {
		logger.Warningf("Error deleting record of banned user %s: %v", targetID, err)
	}
	service.RecordBan(update.ObjectID, targetID, update.Message.SenderID, "banned by admin command")
	metrics.BanCount.WithLabelValues("command").Inc()
	return true
}

// muteTarget parses the trailing duration and silences the target. Bad
// input gets a usage hint and leaves the scheduler untouched.
func (h *Handler) muteTarget(ctx context.Context, update transport.Update, targetID, targetName string) {
	msg := update.Message

	raw := strings.TrimSpace(strings.TrimPrefix(msg.Text, cmdMutePrefix))
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		h.reply(ctx, update.ObjectID, h.tr("mute_usage"), msg.ID)
		return
	}
	if err := h.mutes.Mute(targetID, minutes); err != nil {
		h.reply(ctx, update.ObjectID, h.tr("mute_usage"), msg.ID)
		return
	}

	h.announce(ctx, update.ObjectID, fmt.Sprintf(h.tr("mute_success"), targetName, minutes))
	service.RecordMute(update.ObjectID, targetID, msg.SenderID, minutes)
}

// handleSettingsCommands handles the admin-gated group-wide commands: strict
// mode, the six filter toggles, the voice-call flag, and pin/unpin.
func (h *Handler) handleSettingsCommands(ctx context.Context, update transport.Update, state *messageState) {
	msg := update.Message

	toggle, isFilterCmd := filterCommands[msg.Text]
	isSettingsCmd := isFilterCmd ||
		msg.Text == cmdStrictOn || msg.Text == cmdStrictOff ||
		msg.Text == cmdVoiceCallOn || msg.Text == cmdVoiceCallOff ||
		msg.Text == cmdPin || msg.Text == cmdUnpin
	if !isSettingsCmd {
		return
	}

	if !h.senderIsAdmin(ctx, update.ObjectID, msg.SenderID, state) {
		return
	}

	switch {
	case msg.Text == cmdStrictOn:
		metrics.CommandCount.WithLabelValues("strict").Inc()
		if err := h.store.SetStrictMode(true); err != nil {
			logger.Warningf("Error persisting strict mode: %v", err)
		}
		h.announce(ctx, update.ObjectID, h.tr("strict_enabled"))

	case msg.Text == cmdStrictOff:
		metrics.CommandCount.WithLabelValues("strict").Inc()
		if err := h.store.SetStrictMode(false); err != nil {
			logger.Warningf("Error persisting strict mode: %v", err)
		}
		h.announce(ctx, update.ObjectID, h.tr("strict_disabled"))

	case isFilterCmd:
		metrics.CommandCount.WithLabelValues("filter").Inc()
		if err := h.store.SetFilter(toggle.kind, toggle.on); err != nil {
			logger.Warningf("Error persisting filter %s: %v", toggle.kind, err)
		}
		stateText := h.tr("filter_disabled")
		if toggle.on {
			stateText = h.tr("filter_enabled")
		}
		h.announce(ctx, update.ObjectID, fmt.Sprintf(h.tr("filter_toggled"), toggle.kind, stateText))

	case msg.Text == cmdVoiceCallOn:
		metrics.CommandCount.WithLabelValues("voicecall").Inc()
		if err := h.store.SetVoiceCall(true); err != nil {
			logger.Warningf("Error persisting voice call flag: %v", err)
		}
		h.announce(ctx, update.ObjectID, h.tr("voicecall_enabled"))

	case msg.Text == cmdVoiceCallOff:
		metrics.CommandCount.WithLabelValues("voicecall").Inc()
		if err := h.store.SetVoiceCall(false); err != nil {
			logger.Warningf("Error persisting voice call flag: %v", err)
		}
		h.announce(ctx, update.ObjectID, h.tr("voicecall_disabled"))

	case msg.Text == cmdPin:
		metrics.CommandCount.WithLabelValues("pin").Inc()
		h.pinReplyTarget(ctx, update, transport.PinActionPin)

	case msg.Text == cmdUnpin:
		metrics.CommandCount.WithLabelValues("unpin").Inc()
		h.pinReplyTarget(ctx, update, transport.PinActionUnpin)
	}
}

// pinReplyTarget pins or unpins the replied-to message. A pin command
// without a reply gets a usage hint.
func (h *Handler) pinReplyTarget(ctx context.Context, update transport.Update, action string) {
	msg := update.Message

	successKey, errorKey, usageKey := "pin_success", "pin_error", "pin_usage"
	if action == transport.PinActionUnpin {
		successKey, errorKey, usageKey = "unpin_success", "unpin_error", "unpin_usage"
	}

	if msg.ReplyToMessageID == "" {
		h.reply(ctx, update.ObjectID, h.tr(usageKey), msg.ID)
		return
	}

	if err := h.client.PinMessage(ctx, update.ObjectID, msg.ReplyToMessageID, action); err != nil {
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr(errorKey), err), msg.ID)
		return
	}
	h.reply(ctx, update.ObjectID, h.tr(successKey), msg.ID)
}

// handleDirectMessage handles private one-to-one text: a group invite link
// triggers a join attempt; anything else gets a usage hint.
func (h *Handler) handleDirectMessage(ctx context.Context, update transport.Update) {
	msg := update.Message

	if !strings.HasPrefix(msg.Text, groupInviteLinkPrefix) {
		h.reply(ctx, update.ObjectID, h.tr("dm_usage"), "")
		return
	}

	metrics.CommandCount.WithLabelValues("join").Inc()
	inviteLink := strings.TrimSpace(msg.Text)
	if err := h.client.JoinGroup(ctx, inviteLink); err != nil {
		h.reply(ctx, update.ObjectID, fmt.Sprintf(h.tr("join_error"), err), "")
		return
	}
	h.reply(ctx, update.ObjectID, h.tr("join_success"), "")
}
