// Package store defines the opaque persistence boundary the engine writes
// room snapshots through (spec.md §1 "Persistence... is external; the
// engine operates on an in-memory world and writes snapshots through an
// opaque store interface").
package store

import (
	"context"

	"github.com/kestrelgames/territoryd/pkg/engine"
)

// RoomStore is the durable-storage side of the boundary: a room's snapshot
// survives a process restart by round-tripping through here.
type RoomStore interface {
	SaveSnapshot(ctx context.Context, snapshot engine.RoomSnapshot) error
	LoadSnapshot(ctx context.Context, roomID string) (*engine.RoomSnapshot, error)
	DeleteRoom(ctx context.Context, roomID string) error
	ListActiveRoomIDs(ctx context.Context) ([]string, error)
}

// RoomCache is the live, cross-process side of the boundary: the latest
// tick's outbound payload and a fast-path copy of room state for horizontal
// scaling (a second process instance serving read-only queries without
// hitting Postgres).
type RoomCache interface {
	PublishTick(ctx context.Context, roomID string, views []engine.NationView) error
	SetLiveSnapshot(ctx context.Context, roomID string, snapshot engine.RoomSnapshot) error
	GetLiveSnapshot(ctx context.Context, roomID string) (*engine.RoomSnapshot, error)
	DeleteRoom(ctx context.Context, roomID string) error
}
