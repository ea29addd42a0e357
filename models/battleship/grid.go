package battleship

import "fmt"

const DefaultGridSize int = 10

type PositionState uint8

const (
	PositionStateEmpty PositionState = iota
	PositionStateOccupied
	PositionStateHit
	PositionStateMiss
)

func (ps PositionState) IsTargeted() bool {
	return ps == PositionStateHit || ps == PositionStateMiss
}

// What a display is allowed to see of a position
type SnapshotCell uint8

const (
	SnapshotCellWater SnapshotCell = iota
	SnapshotCellShip
	SnapshotCellHit
	SnapshotCellMiss
)

func (sc SnapshotCell) String() string {
	switch sc {
	case SnapshotCellShip:
		return "S"
	case SnapshotCellHit:
		return "X"
	case SnapshotCellMiss:
		return "O"
	default:
		return "~"
	}
}

// Cells travel as their one letter form so a row
// does not get encoded as a base64 byte string.
func (sc SnapshotCell) MarshalText() ([]byte, error) {
	return []byte(sc.String()), nil
}

func (sc *SnapshotCell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "~":
		*sc = SnapshotCellWater
	case "S":
		*sc = SnapshotCellShip
	case "X":
		*sc = SnapshotCellHit
	case "O":
		*sc = SnapshotCellMiss
	default:
		return fmt.Errorf("invalid snapshot cell: %q", text)
	}
	return nil
}

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

func (c Coordinates) inBound(gridSize int) bool {
	return c.X >= 0 && c.X < gridSize && c.Y >= 0 && c.Y < gridSize
}

// Grid is indexed as grid[y][x]
type Grid [][]PositionState

// Creates a new default grid
// All indexes are zero/PositionStateEmpty
func NewGrid(gridSize int) Grid {
	grid := make(Grid, gridSize)

	for i := 0; i < gridSize; i++ {
		grid[i] = make([]PositionState, gridSize)
	}
	return grid
}

func (g Grid) at(c Coordinates) PositionState {
	return g[c.Y][c.X]
}

func (g Grid) set(c Coordinates, state PositionState) {
	g[c.Y][c.X] = state
}
