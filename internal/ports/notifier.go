package ports

import "context"

// Notifier delivers out-of-band notifications to connections, outside any
// room broadcast group.
type Notifier interface {
	// NotifyUser sends a notification to a single connection.
	NotifyUser(ctx context.Context, userID, subject string, content map[string]interface{}, code int) error
	// NotifyAll sends a notification to every connected session.
	NotifyAll(ctx context.Context, subject string, content map[string]interface{}, code int) error
}
