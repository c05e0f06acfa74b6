package nakama

import (
	"context"
	"database/sql"

	"trisect/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const defaultGameConfigPath = "data/game_config.json"

// InitModule wires RPCs, hooks, and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	configPath := defaultGameConfigPath
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if path, found := env["trisect_game_config"]; found {
			configPath = path
		}
	}
	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("InitModule: could not load game config, using defaults: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameTrisect, NewMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterEventSessionEnd(EventSessionEnd(nk)); err != nil {
		return err
	}

	logger.Info("Trisect Go module loaded.")
	return nil
}
