package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kestrelgames/territoryd/pkg/engine"
)

// Key patterns for Redis room state.
func liveKey(roomID string) string   { return "room:" + roomID + ":live" }
func tickChan(roomID string) string  { return "room:" + roomID + ":ticks" }

// SetLiveSnapshot stores the latest full room snapshot for fast-path reads
// by a second process instance, without round-tripping through Postgres.
func (c *Client) SetLiveSnapshot(ctx context.Context, roomID string, snapshot engine.RoomSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal live snapshot: %w", err)
	}
	return c.rdb.Set(ctx, liveKey(roomID), data, 0).Err()
}

// GetLiveSnapshot retrieves the latest full room snapshot, or nil if absent.
func (c *Client) GetLiveSnapshot(ctx context.Context, roomID string) (*engine.RoomSnapshot, error) {
	data, err := c.rdb.Get(ctx, liveKey(roomID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get live snapshot: %w", err)
	}
	var snapshot engine.RoomSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal live snapshot: %w", err)
	}
	return &snapshot, nil
}

// PublishTick fans out one tick's outbound nation views to any subscribed
// transport instance (spec.md §5: the tick driver hands outbound deltas to
// a transport adapter; pub/sub lets that adapter live in a different
// process than the one running the room).
func (c *Client) PublishTick(ctx context.Context, roomID string, views []engine.NationView) error {
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("marshal tick payload: %w", err)
	}
	return c.rdb.Publish(ctx, tickChan(roomID), data).Err()
}

// DeleteRoom removes all Redis data for a room (on room end).
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.rdb.Del(ctx, liveKey(roomID)).Err()
}

// SubscribeTicks subscribes to a room's tick fan-out channel, for a
// transport process running separately from the one driving the room.
func (c *Client) SubscribeTicks(ctx context.Context, roomID string) *redis.PubSub {
	return c.rdb.Subscribe(ctx, tickChan(roomID))
}
