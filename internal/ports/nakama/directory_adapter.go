package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"trisect/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// directoryCollection holds one system-owned object per connected identity.
const directoryCollection = "player_directory"

// directoryStorage is the subset of runtime.NakamaModule the adapter needs.
type directoryStorage interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
}

// StorageDirectory implements ports.Directory on Nakama's storage engine.
type StorageDirectory struct {
	nk directoryStorage
}

// NewStorageDirectory creates a storage-backed session directory.
func NewStorageDirectory(nk directoryStorage) *StorageDirectory {
	return &StorageDirectory{nk: nk}
}

// CreateUser registers the identity under the given display name,
// replacing any stale record from a previous connection.
func (d *StorageDirectory) CreateUser(ctx context.Context, identity, displayName string) error {
	return d.write(ctx, &ports.UserRecord{
		Identity:    identity,
		DisplayName: displayName,
	})
}

// AssignRoom records the identity's room membership.
func (d *StorageDirectory) AssignRoom(ctx context.Context, roomName, identity, roomType string) error {
	rec, err := d.GetUserDetail(ctx, identity)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("identity %s is not registered", identity)
	}

	rec.Room = roomName
	rec.RoomType = roomType
	return d.write(ctx, rec)
}

// GetUserDetail returns the record for an identity, or nil when absent.
func (d *StorageDirectory) GetUserDetail(ctx context.Context, identity string) (*ports.UserRecord, error) {
	objects, err := d.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: directoryCollection,
		Key:        identity,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory record: %w", err)
	}
	if len(objects) == 0 {
		return nil, nil
	}

	var rec ports.UserRecord
	if err := json.Unmarshal([]byte(objects[0].Value), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal directory record: %w", err)
	}
	return &rec, nil
}

// RemoveUserFromRoom clears the identity's room assignment. A missing
// record is a no-op.
func (d *StorageDirectory) RemoveUserFromRoom(ctx context.Context, identity string) error {
	rec, err := d.GetUserDetail(ctx, identity)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	rec.Room = ""
	rec.RoomType = ""
	return d.write(ctx, rec)
}

// ClearUser purges the identity's record. Deleting an absent key succeeds.
func (d *StorageDirectory) ClearUser(ctx context.Context, identity string) error {
	if err := d.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: directoryCollection,
		Key:        identity,
	}}); err != nil {
		return fmt.Errorf("failed to delete directory record: %w", err)
	}
	return nil
}

// ListUsers enumerates all registered identities, for external listings.
func (d *StorageDirectory) ListUsers(ctx context.Context) ([]ports.UserRecord, error) {
	var records []ports.UserRecord
	cursor := ""
	for {
		objects, next, err := d.nk.StorageList(ctx, "", "", directoryCollection, 100, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory records: %w", err)
		}
		for _, obj := range objects {
			var rec ports.UserRecord
			if err := json.Unmarshal([]byte(obj.Value), &rec); err != nil {
				return nil, fmt.Errorf("failed to unmarshal directory record: %w", err)
			}
			records = append(records, rec)
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return records, nil
}

func (d *StorageDirectory) write(ctx context.Context, rec *ports.UserRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal directory record: %w", err)
	}

	if _, err := d.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      directoryCollection,
		Key:             rec.Identity,
		Value:           string(value),
		PermissionRead:  0,
		PermissionWrite: 0,
	}}); err != nil {
		return fmt.Errorf("failed to write directory record: %w", err)
	}
	return nil
}

var _ ports.Directory = (*StorageDirectory)(nil)
