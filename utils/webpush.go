package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"github.com/JDanielFV/erp/config"
	"github.com/JDanielFV/erp/models"
)

// PushEngine fans an encrypted Web Push payload out to every registered
// endpoint of a user. Endpoints that report a Gone-class status are pruned
// from the subscription table; any other failure is logged and skipped so a
// single bad endpoint never blocks its siblings.
type PushEngine struct {
	db      *gorm.DB
	opts    webpush.Options
	timeout time.Duration
	icon    string
	enabled bool
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
}

// NewPushEngine builds the engine from configuration. Missing VAPID keys
// disable delivery entirely; Deliver then becomes a logged no-op so
// notification creation keeps working on unconfigured installs.
func NewPushEngine(db *gorm.DB, cfg config.AppConfig) *PushEngine {
	timeout := time.Duration(cfg.PushTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PushEngine{
		db: db,
		opts: webpush.Options{
			Subscriber:      cfg.VAPIDSubscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             60,
		},
		timeout: timeout,
		icon:    cfg.PushIconPath,
		enabled: cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "",
	}
}

// Deliver sends {title, body, icon} to every subscription of the user and
// waits for all sends to settle. Zero subscriptions is a normal outcome.
// The returned error covers only the subscription fetch; per-endpoint
// failures are handled inside the fan-out and never bubble up.
func (e *PushEngine) Deliver(ctx context.Context, userID, title, message string) error {
	if !e.enabled {
		Sugar.Debugw("push disabled, skipping delivery", "user_id", userID)
		return nil
	}

	var subs []models.PushSubscription
	if err := e.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return err
	}
	if len(subs) == 0 {
		Sugar.Debugw("no push subscriptions", "user_id", userID)
		return nil
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: message, Icon: e.icon})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()
			e.send(ctx, sub, payload)
		}(sub)
	}
	wg.Wait()
	return nil
}

func (e *PushEngine) send(ctx context.Context, sub models.PushSubscription, payload []byte) {
	sendCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := webpush.SendNotificationWithContext(sendCtx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &e.opts)
	if err != nil {
		Sugar.Warnw("push send failed", "user_id", sub.UserID, "endpoint", sub.Endpoint, "err", err)
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		// Endpoint will never accept another message; prune the registration.
		if err := e.db.Delete(&models.PushSubscription{}, sub.ID).Error; err != nil {
			Sugar.Warnw("failed to prune dead subscription", "id", sub.ID, "err", err)
			return
		}
		Sugar.Infow("pruned expired push subscription", "user_id", sub.UserID, "endpoint", sub.Endpoint, "status", resp.StatusCode)
	case resp.StatusCode >= 400:
		Sugar.Warnw("push endpoint rejected delivery", "user_id", sub.UserID, "endpoint", sub.Endpoint, "status", resp.StatusCode)
	}
}
