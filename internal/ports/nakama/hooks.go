package nakama

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"trisect/internal/app/onboarding"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice registers every authenticated session in the
// player directory. Records are per-connection, purged at session end, so
// this runs on reconnects as well as on first sign-in.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	userID := ""
	if ctxUserID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); ok {
		userID = ctxUserID
	}
	if userID == "" {
		// Resolve the user ID from the session token by parsing the JWT payload manually.
		resolvedID, err := extractUserIDFromToken(out.Token)
		if err != nil {
			logger.Error("AfterAuthenticateDevice: failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}

	service := onboarding.NewService(NewStorageDirectory(nk), nil)
	result, err := service.OnboardNewUser(ctx, userID, in.GetUsername())
	if err != nil {
		logger.Error("AfterAuthenticateDevice: onboarding failed for user %s: %v", userID, err)
		return err
	}

	// Welcome delivery is best-effort; the directory record is what matters.
	notifier := NewNakamaNotifier(nk)
	content := map[string]interface{}{
		"user":    result.DisplayName,
		"message": fmt.Sprintf("Welcome %s", result.DisplayName),
	}
	if err := notifier.NotifyUser(ctx, userID, "message", content, int(OpMessage)); err != nil {
		logger.Warn("AfterAuthenticateDevice: failed to send welcome to %s: %v", userID, err)
	}

	return nil
}

func extractUserIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}

	payload := parts[1]
	// JWT base64 is RawUrlEncoding (no padding)
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(data, &claims); err != nil {
		return "", fmt.Errorf("failed to unmarshal token claims: %w", err)
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return "", fmt.Errorf("token claims missing uid")
	}

	return uid, nil
}
