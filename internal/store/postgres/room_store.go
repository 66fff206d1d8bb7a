package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kestrelgames/territoryd/pkg/engine"
)

// RoomStore persists room snapshots as a single JSONB column, keyed by room
// id. Reading the whole world back on a cold room is the uncommon path
// (tickhost keeps live rooms in memory); this table exists for process
// restarts and horizontal failover.
type RoomStore struct {
	db *sql.DB
}

// NewRoomStore creates a RoomStore.
func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

// SaveSnapshot upserts a room's full snapshot.
func (s *RoomStore) SaveSnapshot(ctx context.Context, snapshot engine.RoomSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal room snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO room_snapshots (room_id, tick, state, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (room_id) DO UPDATE SET tick = $2, state = $3, updated_at = $4`,
		snapshot.RoomID, snapshot.Tick, data, snapshot.LastModified,
	)
	if err != nil {
		return fmt.Errorf("save room snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot loads a room's most recently persisted snapshot, or nil if
// the room has never been saved.
func (s *RoomStore) LoadSnapshot(ctx context.Context, roomID string) (*engine.RoomSnapshot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM room_snapshots WHERE room_id = $1`, roomID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load room snapshot: %w", err)
	}
	var snapshot engine.RoomSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal room snapshot: %w", err)
	}
	return &snapshot, nil
}

// DeleteRoom removes a room's persisted snapshot.
func (s *RoomStore) DeleteRoom(ctx context.Context, roomID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM room_snapshots WHERE room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

// ListActiveRoomIDs returns every room id with a persisted snapshot, for
// rehydrating rooms on process startup.
func (s *RoomStore) ListActiveRoomIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT room_id FROM room_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan room id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
