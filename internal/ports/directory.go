package ports

import "context"

// UserRecord is the session directory entry for one connected identity.
// Records live for the lifetime of the connection: created on login,
// mutated on room join/leave, purged at session end.
type UserRecord struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
	Room        string `json:"room"`
	RoomType    string `json:"roomType"`
}

// Directory is the session directory the game core consumes. Implementations
// may back it with any key-value store; all operations are attempted once
// per triggering event, with no retries.
type Directory interface {
	// CreateUser registers a new identity under the given display name.
	CreateUser(ctx context.Context, identity, displayName string) error
	// AssignRoom records the identity's room membership. The identity must
	// already be registered.
	AssignRoom(ctx context.Context, roomName, identity, roomType string) error
	// GetUserDetail returns the record for an identity, or nil when absent.
	// Absence is not an error.
	GetUserDetail(ctx context.Context, identity string) (*UserRecord, error)
	// RemoveUserFromRoom clears the identity's room assignment. Idempotent;
	// an absent record is a no-op.
	RemoveUserFromRoom(ctx context.Context, identity string) error
	// ClearUser purges the identity's record entirely. Idempotent.
	ClearUser(ctx context.Context, identity string) error
}
