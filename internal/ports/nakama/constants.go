package nakama

const (
	// RpcFindRoom is the Nakama RPC id clients call to find or create a
	// perpetual room with an open seat.
	RpcFindRoom = "find_room"

	// RpcLeaderboard is the Nakama RPC id for out-of-match standings reads.
	RpcLeaderboard = "leaderboard"

	// MatchNameBoardroom is the authoritative match handler name registered
	// with Nakama.
	MatchNameBoardroom = "boardroom_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartSession       int64 = 1
	OpLockIn             int64 = 2
	OpSelectMVP          int64 = 3
	OpLeaderboardRequest int64 = 4

	// Server -> Client events
	OpRoomState         int64 = 100
	OpSessionStarted    int64 = 101
	OpHandDealt         int64 = 102 // sent privately
	OpChallengeRevealed int64 = 103
	OpLockedIn          int64 = 104
	OpMVPSelected       int64 = 105
	OpRoundAdvanced     int64 = 106
	OpSessionFinished   int64 = 107
	OpLeaderboardState  int64 = 108
	OpGameError         int64 = 109
)
