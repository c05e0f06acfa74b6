package nakama

const (
	// RpcJoinRoom is the Nakama RPC id clients call to find or create the match for a named room.
	RpcJoinRoom = "join_room"

	// RpcListPlayers is the Nakama RPC id clients call to list registered players.
	RpcListPlayers = "list_players"

	// MatchNameTrisect is the authoritative match handler name registered with Nakama.
	MatchNameTrisect = "trisect_match"

	// GameName labels trisect matches for listing queries.
	GameName = "trisect"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpLetsPlay   int64 = 1
	OpSendNumber int64 = 2
	OpLeaveRoom  int64 = 3

	// Server -> Client events
	OpMessage      int64 = 101
	OpError        int64 = 102
	OpOnReady      int64 = 103
	OpRandomNumber int64 = 104
	OpActivateTurn int64 = 105
	OpGameOver     int64 = 106
	OpListTrigger  int64 = 107 // delivered as a global notification
)
