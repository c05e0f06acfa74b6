package nakama

import (
	"context"

	"trisect/internal/ports"
)

// notificationSender is the subset of runtime.NakamaModule the adapter needs.
type notificationSender interface {
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
	NotificationSendAll(ctx context.Context, subject string, content map[string]interface{}, code int, persistent bool) error
}

// NakamaNotifier implements ports.Notifier on Nakama's notification system.
type NakamaNotifier struct {
	nk notificationSender
}

// NewNakamaNotifier creates a new notifier adapter.
func NewNakamaNotifier(nk notificationSender) *NakamaNotifier {
	return &NakamaNotifier{nk: nk}
}

// NotifyUser sends a non-persistent notification to a single connection.
func (n *NakamaNotifier) NotifyUser(ctx context.Context, userID, subject string, content map[string]interface{}, code int) error {
	return n.nk.NotificationSend(ctx, userID, subject, content, code, "", false)
}

// NotifyAll sends a non-persistent notification to every connected session.
func (n *NakamaNotifier) NotifyAll(ctx context.Context, subject string, content map[string]interface{}, code int) error {
	return n.nk.NotificationSendAll(ctx, subject, content, code, false)
}

var _ ports.Notifier = (*NakamaNotifier)(nil)
