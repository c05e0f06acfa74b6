package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig tunes the convergence game runtime.
type GameConfig struct {
	// CPUMoveDelayMillis is how long the automated opponent waits after a
	// human move before its own move resolves.
	CPUMoveDelayMillis int `json:"cpu_move_delay_ms"`
	// StartValueMin/StartValueMax bound the first value of a round, inclusive.
	StartValueMin int64 `json:"start_value_min"`
	StartValueMax int64 `json:"start_value_max"`
	// BotStrategy selects the automated opponent strategy ("random" or "solver").
	BotStrategy string `json:"bot_strategy"`
	// TickRate is the match loop tick rate in ticks per second (1..60).
	TickRate int `json:"tick_rate"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// DefaultGameConfig returns the built-in configuration values.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		CPUMoveDelayMillis: 2000,
		StartValueMin:      1999,
		StartValueMax:      9999,
		BotStrategy:        "random",
		TickRate:           10,
	}
}

// LoadGameConfig loads the game configuration from the given path. Fields
// absent from the file keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := DefaultGameConfig()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults when no
// file has been loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return DefaultGameConfig()
	}
	return cfg
}
