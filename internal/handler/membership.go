package handler

import (
	"context"
	"fmt"
	"time"

	"rubika-guard/internal/logger"
	"rubika-guard/internal/models"
	"rubika-guard/internal/transport"
)

// handleMembershipEvent greets joining members and notes leaving ones.
// Transport lookups here are best-effort: a failed name resolution skips the
// notice for that member without affecting the rest.
func (h *Handler) handleMembershipEvent(ctx context.Context, update transport.Update) {
	switch update.Event.Type {
	case transport.EventAddMembers:
		for _, memberID := range update.Event.MemberIDs {
			h.welcomeMember(ctx, update.ObjectID, memberID)
		}
	case transport.EventRemoveMembers:
		for _, memberID := range update.Event.MemberIDs {
			h.farewellMember(ctx, update.ObjectID, memberID)
		}
	}
}

// welcomeMember creates a zeroed record for the new member and posts a
// welcome naming the group. Leaving preserves the record; only bans delete.
func (h *Handler) welcomeMember(ctx context.Context, objectID, memberID string) {
	name := h.tr("unknown_user")
	info, err := h.client.GetUserInfo(ctx, memberID)
	if err != nil {
		logger.Warningf("Error fetching user info for %s: %v", memberID, err)
	} else if info.DisplayName() != "" {
		name = info.DisplayName()
	}

	joinedAt := time.Now()
	if err := h.store.UpdateUser(memberID, func(rec *models.UserRecord) {
		*rec = models.NewUserRecord(name, joinedAt)
	}); err != nil {
		logger.Warningf("Error persisting record for joining user %s: %v", memberID, err)
	}

	welcome := fmt.Sprintf(h.tr("welcome_message"),
		name, h.client.Me().FirstName, joinedAt.Format("2006-01-02 15:04:05"))
	h.announce(ctx, objectID, welcome)
}

// farewellMember posts a farewell using the stored display name. The record
// is intentionally kept for a potential re-join.
func (h *Handler) farewellMember(ctx context.Context, objectID, memberID string) {
	name := h.tr("default_user")
	if rec, ok := h.store.GetUser(memberID); ok && rec.Name != "" {
		name = rec.Name
	}
	h.announce(ctx, objectID, fmt.Sprintf(h.tr("farewell_message"), name))
}
