package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"trisect/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// JoinRoomRequest is the payload clients send to join a named room.
type JoinRoomRequest struct {
	Room     string `json:"room"`
	RoomType string `json:"roomType"`
}

// JoinRoomResponse returns the match backing the requested room.
type JoinRoomResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// ListPlayersResponse enumerates the registered player directory.
type ListPlayersResponse struct {
	Players []PlayerListing `json:"players"`
}

type PlayerListing struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
	Room        string `json:"room,omitempty"`
}

// matchRegistry is the subset of runtime.NakamaModule room routing needs.
type matchRegistry interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcJoinRoom, rpcJoinRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcListPlayers, rpcListPlayers)
}

func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req JoinRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}

	resp, err := findOrCreateRoom(ctx, nk, req)
	if err != nil {
		logger.Error("rpcJoinRoom: %v", err)
		return "", err
	}

	b, _ := json.Marshal(resp)
	return string(b), nil
}

// findOrCreateRoom resolves a room name to its backing match, creating the
// match when the room does not exist yet. Capacity and directory writes are
// enforced by the match handler at join time.
func findOrCreateRoom(ctx context.Context, registry matchRegistry, req JoinRoomRequest) (*JoinRoomResponse, error) {
	if req.Room == "" {
		return nil, runtime.NewError("room name is required", 3)
	}
	if !domain.RoomType(req.RoomType).Valid() {
		return nil, runtime.NewError("room type must be pvp or cpu", 3)
	}

	query := fmt.Sprintf("+label.game:%s +label.room:%s", GameName, req.Room)
	matches, err := registry.MatchList(ctx, 10, true, "", nil, nil, query)
	if err != nil {
		return nil, fmt.Errorf("match list failed: %w", err)
	}
	if len(matches) > 0 {
		return &JoinRoomResponse{MatchID: matches[0].MatchId, IsNew: false}, nil
	}

	matchID, err := registry.MatchCreate(ctx, MatchNameTrisect, map[string]interface{}{
		"room": req.Room,
		"type": req.RoomType,
	})
	if err != nil {
		return nil, fmt.Errorf("match create failed: %w", err)
	}

	return &JoinRoomResponse{MatchID: matchID, IsNew: true}, nil
}

func rpcListPlayers(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	records, err := NewStorageDirectory(nk).ListUsers(ctx)
	if err != nil {
		logger.Error("rpcListPlayers: %v", err)
		return "", runtime.NewError("failed to list players", 13)
	}

	resp := ListPlayersResponse{Players: make([]PlayerListing, 0, len(records))}
	for _, rec := range records {
		resp.Players = append(resp.Players, PlayerListing{
			Identity:    rec.Identity,
			DisplayName: rec.DisplayName,
			Room:        rec.Room,
		})
	}

	b, _ := json.Marshal(resp)
	return string(b), nil
}
