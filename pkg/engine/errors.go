package engine

import "errors"

// Sentinel errors returned by command application (spec.md §7): callers
// match against these with errors.Is rather than parsing message text.
var (
	ErrUnknownOwner       = errors.New("engine: unknown owner id")
	ErrOwnerAlreadyExists = errors.New("engine: owner already registered")
	ErrCellNotOwned       = errors.New("engine: cell is not owned by this nation")
	ErrCellNotClaimable   = errors.New("engine: cell is not claimable (ocean)")
	ErrCellOutOfBounds    = errors.New("engine: coordinate is out of map bounds")
	ErrArrowAlreadyActive = errors.New("engine: a live arrow of this type already exists")
	ErrInvalidArrowPath   = errors.New("engine: arrow path is invalid")
	ErrNationNotActive    = errors.New("engine: nation is not active")
	ErrInsufficientFunds  = errors.New("engine: insufficient resources")
	ErrRoomAlreadyStarted = errors.New("engine: room has already started")
	ErrStructureOverlap   = errors.New("engine: a structure already occupies this cell")
)
