package nakama

import (
	"context"

	"trisect/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// EventSessionEnd returns the session-end callback: it purges the identity
// from the directory and nudges remaining connections to refresh their
// listings. Room not-ready cleanup happens independently in MatchLeave.
func EventSessionEnd(nk runtime.NakamaModule) func(ctx context.Context, logger runtime.Logger, evt *api.Event) {
	return func(ctx context.Context, logger runtime.Logger, evt *api.Event) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		sessionEndCleanup(ctx, logger, NewStorageDirectory(nk), NewNakamaNotifier(nk), userID)
	}
}

// sessionEndCleanup runs both teardown steps; a failure in one never
// suppresses the other.
func sessionEndCleanup(ctx context.Context, logger runtime.Logger, directory ports.Directory, notifier ports.Notifier, userID string) {
	if userID == "" {
		return
	}

	if err := directory.ClearUser(ctx, userID); err != nil {
		logger.Error("sessionEndCleanup: failed to clear %s from directory: %v", userID, err)
	}

	content := map[string]interface{}{"changed": true}
	if err := notifier.NotifyAll(ctx, "listTrigger", content, int(OpListTrigger)); err != nil {
		logger.Error("sessionEndCleanup: failed to broadcast list trigger: %v", err)
	}
}
