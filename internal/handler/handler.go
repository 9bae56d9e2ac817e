// Package handler contains the event dispatcher: it classifies incoming
// updates and drives the moderation pipeline for each one.
package handler

import (
	"context"
	"sync"
	"time"

	"rubika-guard/internal/config"
	"rubika-guard/internal/crash"
	"rubika-guard/internal/logger"
	"rubika-guard/internal/metrics"
	"rubika-guard/internal/models"
	"rubika-guard/internal/storage"
	"rubika-guard/internal/transport"
)

// Handler dispatches classified updates through the moderation pipeline.
// Shared state (user store, mute list) is accessed only through its owning
// contracts; pipeline stages never touch raw maps.
type Handler struct {
	client   transport.Client
	store    *storage.Store
	mutes    *models.MuteList
	language string

	groupID           string
	workers           int
	spamDeleteTimeout time.Duration
}

// New builds a handler from configuration and its collaborators.
func New(cfg *config.Config, client transport.Client, store *storage.Store, mutes *models.MuteList) *Handler {
	workers := cfg.Moderation.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Handler{
		client:            client,
		store:             store,
		mutes:             mutes,
		language:          models.LangPersian,
		groupID:           cfg.Bot.GroupID,
		workers:           workers,
		spamDeleteTimeout: time.Duration(cfg.Moderation.SpamDeleteTimeoutMs) * time.Millisecond,
	}
}

// Run consumes updates until the channel closes, dispatching them across a
// fixed pool of workers. Each event is contained: a panic or failure in one
// event never stops the others.
func (h *Handler) Run(ctx context.Context, updates <-chan transport.Update) {
	var wg sync.WaitGroup
	for i := 0; i < h.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for update := range updates {
				h.dispatch(ctx, update)
			}
		}()
	}
	wg.Wait()
}

// dispatch routes one update to the membership or message path.
func (h *Handler) dispatch(ctx context.Context, update transport.Update) {
	defer crash.RecoverWithStack("handler-dispatch")

	// group_id allowlist: only process the configured group
	if h.groupID != "" && update.ObjectID != h.groupID && !update.IsPrivate() {
		return
	}

	if update.Event != nil {
		metrics.EventProcessCount.WithLabelValues("membership").Inc()
		h.handleMembershipEvent(ctx, update)
		return
	}

	metrics.EventProcessCount.WithLabelValues("message").Inc()
	h.handleMessage(ctx, update)
}

// tr is a shorthand for looking up a localized message.
func (h *Handler) tr(key string) string {
	return models.GetTranslation(h.language, key)
}

// reply sends text as a reply to the given message, logging send failures.
func (h *Handler) reply(ctx context.Context, objectID, text, replyTo string) {
	if _, err := h.client.SendMessage(ctx, objectID, text, replyTo); err != nil {
		logger.Warningf("Error sending message to %s: %v", objectID, err)
	}
}

// announce sends text to the chat without a reply target.
func (h *Handler) announce(ctx context.Context, objectID, text string) {
	h.reply(ctx, objectID, text, "")
}
