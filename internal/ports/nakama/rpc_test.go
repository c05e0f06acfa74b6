package nakama

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
)

// fakeRegistry records match listing and creation calls.
type fakeRegistry struct {
	matches    []*api.Match
	listQuery  string
	created    bool
	createdID  string
	failCreate bool
}

func (fr *fakeRegistry) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	fr.listQuery = query
	return fr.matches, nil
}

func (fr *fakeRegistry) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	if fr.failCreate {
		return "", errors.New("create failed")
	}
	fr.created = true
	fr.createdID = "created-match"
	if module != MatchNameTrisect {
		return "", errors.New("unexpected match module " + module)
	}
	if params["room"] == "" || params["type"] == "" {
		return "", errors.New("missing room params")
	}
	return fr.createdID, nil
}

func TestFindOrCreateRoomValidation(t *testing.T) {
	tests := []struct {
		name string
		req  JoinRoomRequest
	}{
		{name: "empty room name", req: JoinRoomRequest{Room: "", RoomType: "pvp"}},
		{name: "unknown room type", req: JoinRoomRequest{Room: "r", RoomType: "coop"}},
		{name: "missing room type", req: JoinRoomRequest{Room: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &fakeRegistry{}
			if _, err := findOrCreateRoom(context.Background(), registry, tt.req); err == nil {
				t.Fatalf("expected a validation error")
			}
			if registry.created {
				t.Fatalf("invalid request must not create a match")
			}
		})
	}
}

func TestFindOrCreateRoomFindsExisting(t *testing.T) {
	registry := &fakeRegistry{
		matches: []*api.Match{{MatchId: "existing-match"}},
	}

	resp, err := findOrCreateRoom(context.Background(), registry, JoinRoomRequest{Room: "lobby", RoomType: "pvp"})
	if err != nil {
		t.Fatalf("findOrCreateRoom: %v", err)
	}
	if resp.MatchID != "existing-match" || resp.IsNew {
		t.Fatalf("response = %+v, want existing-match/is_new=false", resp)
	}
	if registry.created {
		t.Fatalf("existing room must not be recreated")
	}
	if !strings.Contains(registry.listQuery, "+label.room:lobby") {
		t.Fatalf("list query %q does not filter on room name", registry.listQuery)
	}
	if !strings.Contains(registry.listQuery, "+label.game:"+GameName) {
		t.Fatalf("list query %q does not filter on game", registry.listQuery)
	}
}

func TestFindOrCreateRoomCreatesWhenAbsent(t *testing.T) {
	registry := &fakeRegistry{}

	resp, err := findOrCreateRoom(context.Background(), registry, JoinRoomRequest{Room: "lobby", RoomType: "cpu"})
	if err != nil {
		t.Fatalf("findOrCreateRoom: %v", err)
	}
	if resp.MatchID != "created-match" || !resp.IsNew {
		t.Fatalf("response = %+v, want created-match/is_new=true", resp)
	}
	if !registry.created {
		t.Fatalf("absent room should trigger a create")
	}
}

func TestFindOrCreateRoomCreateFailure(t *testing.T) {
	registry := &fakeRegistry{failCreate: true}

	if _, err := findOrCreateRoom(context.Background(), registry, JoinRoomRequest{Room: "lobby", RoomType: "pvp"}); err == nil {
		t.Fatalf("expected create failure to propagate")
	}
}
