package bot

import "testing"

func TestGetIdentity_FallbackPool(t *testing.T) {
	identity := GetIdentity(3)
	if identity.UserID == "" || identity.DisplayName == "" {
		t.Fatalf("fallback identity incomplete: %+v", identity)
	}
	if identity.Difficulty != DifficultySteady {
		t.Errorf("fallback difficulty = %s, want %s", identity.Difficulty, DifficultySteady)
	}
}

func TestIsBot_OnlyMintedFallbackIDs(t *testing.T) {
	identity := GetIdentity(7)
	if !IsBot(identity.UserID) {
		t.Errorf("minted id %s not recognized as AI", identity.UserID)
	}

	// A human whose account id merely resembles a minted id stays human.
	for _, userID := range []string{"bot-operator", "bot-1234-not-minted", "alice"} {
		if IsBot(userID) {
			t.Errorf("user id %q wrongly classified as AI", userID)
		}
	}
}
