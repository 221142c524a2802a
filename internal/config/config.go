package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds room-level tunables. Protocol rules (round count, golden
// bonus, MVP window) are fixed constants in the domain package and are not
// configurable here.
type GameConfig struct {
	// RoundTimeoutSeconds is how long a round waits for stragglers before
	// the room force-advances the session. Zero disables the timeout.
	RoundTimeoutSeconds int `json:"round_timeout_seconds"`

	// BotMinDelaySeconds / BotMaxDelaySeconds pace AI lock-ins so they feel
	// considered rather than instant.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`

	// BotAutoFillDelaySeconds is how long a solo human waits before AI
	// opponents fill the remaining seats.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`

	// MaxSeats caps the participants per room.
	MaxSeats int `json:"max_seats"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, with safe defaults when no
// file was loaded.
func GetGameConfig() GameConfig {
	c := GameConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.BotMinDelaySeconds == 0 {
		c.BotMinDelaySeconds = 1
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds + 2
	}
	if c.BotAutoFillDelaySeconds == 0 {
		c.BotAutoFillDelaySeconds = 5
	}
	if c.MaxSeats == 0 {
		c.MaxSeats = 4
	}
	return c
}
