package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Identity describes one member of the AI opponent pool.
type Identity struct {
	UserID      string      `json:"user_id"`
	DisplayName string      `json:"display_name"`
	Difficulty  Difficulty  `json:"difficulty"`
	Personality Personality `json:"personality"`
	CSuiteRole  string      `json:"c_suite_role"`
	AvatarIndex int         `json:"avatar_index"`
}

var (
	identities  []Identity
	identityMap map[string]Identity
	loadOnce    sync.Once
	loadErr     error

	// mintedIDs tracks fallback ids handed out by GetIdentity when no pool
	// is loaded, so IsBot never has to guess from the id shape.
	mintedMu  sync.Mutex
	mintedIDs = make(map[string]bool)
)

// LoadIdentities loads the AI opponent pool from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identityMap = make(map[string]Identity, len(identities))
		for _, identity := range identities {
			if identity.UserID != "" {
				identityMap[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// GetIdentity returns an identity for an AI seat by index (mod pool size),
// with a deterministic fallback when no pool is loaded.
func GetIdentity(index int) Identity {
	if len(identities) == 0 {
		userID := fmt.Sprintf("bot-%d", index)
		mintedMu.Lock()
		mintedIDs[userID] = true
		mintedMu.Unlock()
		return Identity{
			UserID:      userID,
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
			Difficulty:  DifficultySteady,
			Personality: PersonalityBalanced,
		}
	}
	return identities[index%len(identities)]
}

// GetIdentityByID returns the identity for the given user id.
func GetIdentityByID(userID string) (Identity, bool) {
	identity, ok := identityMap[userID]
	return identity, ok
}

// IsBot reports whether the user id belongs to the AI pool, either loaded
// from the identity file or minted as a fallback.
func IsBot(userID string) bool {
	if _, ok := identityMap[userID]; ok {
		return true
	}
	mintedMu.Lock()
	defer mintedMu.Unlock()
	return mintedIDs[userID]
}
