package engine

import "fmt"

// CommandType discriminates the inbound command union (spec.md §6).
type CommandType string

const (
	CommandFoundNation    CommandType = "foundNation"
	CommandBuildStructure CommandType = "buildStructure"
	CommandDrawArrow      CommandType = "drawArrow"
	CommandStartRoom      CommandType = "startRoom"
)

// Command is one inbound instruction, drained from the per-room queue at
// the start of a tick (spec.md §4.10 step 1, §5). At most one of the typed
// fields is populated, matching CommandType; startRoom carries none.
type Command struct {
	Type CommandType

	Owner string

	FoundNation    *FoundNationCommand
	BuildStructure *BuildStructureCommand
	DrawArrow      *DrawArrowCommand
}

// FoundNationCommand registers a new nation and places its capital.
type FoundNationCommand struct {
	X, Y int
	IsBot bool
}

// BuildStructureCommand adds a city to an already-registered nation.
type BuildStructureCommand struct {
	X, Y int
	Kind CityType
	Name string
}

// DrawArrowCommand creates a new attack or defend arrow for a nation.
type DrawArrowCommand struct {
	Kind            ArrowType
	Path            []Coord
	TroopCommitment float64
}

// ApplyCommands drains and applies every queued command in order (spec.md
// §4.10 step 1). Invalid commands are rejected without mutating state; the
// caller gets back one result per command, in order, for relaying command
// rejections to the transport layer (spec.md §7 "Invalid command").
func (room *Room) ApplyCommands(cmds []Command) []error {
	results := make([]error, len(cmds))
	for i, cmd := range cmds {
		results[i] = room.applyCommand(cmd)
	}
	return results
}

func (room *Room) applyCommand(cmd Command) error {
	switch cmd.Type {
	case CommandFoundNation:
		return room.applyFoundNation(cmd.Owner, cmd.FoundNation)
	case CommandBuildStructure:
		return room.applyBuildStructure(cmd.Owner, cmd.BuildStructure)
	case CommandDrawArrow:
		return room.applyDrawArrow(cmd.Owner, cmd.DrawArrow)
	case CommandStartRoom:
		if room.started {
			return ErrRoomAlreadyStarted
		}
		room.started = true
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidArrowPath, cmd.Type)
	}
}

func (room *Room) applyFoundNation(owner string, c *FoundNationCommand) error {
	if c == nil {
		return ErrCellOutOfBounds
	}
	if !room.Map.InBounds(c.X, c.Y) {
		return ErrCellOutOfBounds
	}
	cell := room.Map.At(c.X, c.Y)
	if !cell.Claimable() {
		return ErrCellNotClaimable
	}
	if _, exists := room.Registry.Get(owner); exists {
		return ErrOwnerAlreadyExists
	}

	n, err := room.Registry.Register(owner, c.IsBot)
	if err != nil {
		return err
	}
	n.Status = StatusActive
	n.CapitalCell = Coord{X: c.X, Y: c.Y}
	n.Cities = append(n.Cities, City{Coord: n.CapitalCell, Type: CityCapital})
	n.Population = room.Config.Growth.Floor
	n.MaxPopulation = room.Config.Growth.Floor
	room.Registry.AddCell(n, c.X, c.Y, room.Map)
	return nil
}

func (room *Room) applyBuildStructure(owner string, c *BuildStructureCommand) error {
	if c == nil {
		return ErrCellOutOfBounds
	}
	n, ok := room.Registry.Get(owner)
	if !ok {
		return ErrUnknownOwner
	}
	if n.Status != StatusActive {
		return ErrNationNotActive
	}
	if !room.Map.InBounds(c.X, c.Y) {
		return ErrCellOutOfBounds
	}
	target := Coord{X: c.X, Y: c.Y}
	if !n.Owns(target) {
		return ErrCellNotOwned
	}
	for _, city := range n.Cities {
		if city.Coord == target {
			return ErrStructureOverlap
		}
	}
	if c.Kind == CityCapital {
		return fmt.Errorf("%w: capital is placed only by foundNation", ErrInvalidArrowPath)
	}
	n.Cities = append(n.Cities, City{Coord: target, Type: c.Kind, Name: c.Name})
	return nil
}

func (room *Room) applyDrawArrow(owner string, c *DrawArrowCommand) error {
	if c == nil {
		return ErrInvalidArrowPath
	}
	n, ok := room.Registry.Get(owner)
	if !ok {
		return ErrUnknownOwner
	}
	if n.Status != StatusActive {
		return ErrNationNotActive
	}
	if len(c.Path) < 2 {
		return ErrInvalidArrowPath
	}
	if !n.Owns(c.Path[0]) {
		return ErrCellNotOwned
	}

	switch c.Kind {
	case ArrowAttack:
		if n.Orders.Attack != nil {
			return ErrArrowAlreadyActive
		}
	case ArrowDefend:
		if n.Orders.Defend != nil {
			return ErrArrowAlreadyActive
		}
	default:
		return ErrInvalidArrowPath
	}

	pricing := room.Config.Pricing
	tileCount := float64(len(c.Path) - 1)
	foodCost := pricing.BaseFood + pricing.PerTileFood*tileCount
	goldCost := pricing.BaseGold + pricing.PerTileGold*tileCount
	firstArrowFree := pricing.FirstArrowFree && !n.HasDrawnArrow
	if !firstArrowFree {
		if n.Resources.Food < foodCost || n.Resources.Gold < goldCost {
			return ErrInsufficientFunds
		}
		n.Resources.Food -= foodCost
		n.Resources.Gold -= goldCost
	}

	power := n.Population * c.TroopCommitment
	if power <= 0 {
		return ErrInsufficientFunds
	}

	arrow, err := NewArrow(newArrowID(n, room.Tick, c.Kind), c.Kind, c.Path, power, c.TroopCommitment, room.Tick)
	if err != nil {
		return err
	}
	n.Population -= power
	n.HasDrawnArrow = true

	switch c.Kind {
	case ArrowAttack:
		n.Orders.Attack = arrow
	case ArrowDefend:
		n.Orders.Defend = arrow
	}
	return nil
}
