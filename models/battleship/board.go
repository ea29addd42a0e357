package battleship

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const DefaultMaxPlacementAttempts int = 10000

type AttackOutcome uint8

const (
	AttackOutcomeMiss AttackOutcome = iota
	AttackOutcomeHit
)

// Feedback text shown to the players
func (ao AttackOutcome) String() string {
	if ao == AttackOutcomeHit {
		return "Hit!"
	}
	return "Miss!"
}

type AttackResult struct {
	Coordinates Coordinates   `json:"coordinates"`
	Outcome     AttackOutcome `json:"outcome"`

	// Only set if this attack sank the ship
	SunkShip string `json:"sunk_ship,omitempty"`
}

// Board is the defence grid of one side along with
// the fleet placed on it.
type Board struct {
	size   int
	grid   Grid
	ships  []*Ship
	shipAt map[Coordinates]*Ship
}

func NewBoard(size int) *Board {
	return &Board{
		size:   size,
		grid:   NewGrid(size),
		ships:  make([]*Ship, 0, len(DefaultCatalog)),
		shipAt: make(map[Coordinates]*Ship),
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) Ships() []*Ship {
	ships := make([]*Ship, len(b.ships))
	copy(ships, b.ships)
	return ships
}

func (b *Board) canPlaceShip(ship *Ship) error {
	for _, c := range ship.coordinates {
		if !c.inBound(b.size) {
			return cerr.ErrShipOutOfGridBound(ship.name, ship.anchor.X, ship.anchor.Y)
		}
		if b.grid.at(c) != PositionStateEmpty {
			return cerr.ErrShipPositionTaken(ship.name, c.X, c.Y)
		}
	}
	return nil
}

// PlaceShip marks every position of ship as occupied. Nothing
// changes if any position is out of bound or already taken.
func (b *Board) PlaceShip(ship *Ship) error {
	if err := b.canPlaceShip(ship); err != nil {
		return err
	}

	for _, c := range ship.coordinates {
		b.grid.set(c, PositionStateOccupied)
		b.shipAt[c] = ship
	}
	b.ships = append(b.ships, ship)
	return nil
}

// PlaceFleet places the ships of catalog in order at random anchors and
// orientations. Each ship gets at most maxAttempts samples; there is no
// backtracking over ships already placed.
func (b *Board) PlaceFleet(catalog Catalog, rng *rand.Rand, maxAttempts int) error {
	for _, shipType := range catalog {
		placed := false

		for attempt := 0; attempt < maxAttempts; attempt++ {
			anchor := NewCoordinates(rng.IntN(b.size), rng.IntN(b.size))
			orientation := OrientationHorizontal
			if rng.IntN(2) == 1 {
				orientation = OrientationVertical
			}

			if err := b.PlaceShip(NewShip(shipType, anchor, orientation)); err == nil {
				placed = true
				break
			}
		}

		if !placed {
			return cerr.ErrPlacementAttemptsExhausted(shipType.Name, maxAttempts)
		}
	}
	return nil
}

func (b *Board) PositionState(c Coordinates) (PositionState, error) {
	if !c.inBound(b.size) {
		return PositionStateEmpty, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}
	return b.grid.at(c), nil
}

// Returns nil if c can still be attacked
func (b *Board) validateTarget(c Coordinates) error {
	state, err := b.PositionState(c)
	if err != nil {
		return err
	}
	if state.IsTargeted() {
		return cerr.ErrAttackPositionAlreadyTargeted(c.X, c.Y)
	}
	return nil
}

func (b *Board) IsTargetable(c Coordinates) bool {
	return b.validateTarget(c) == nil
}

func (b *Board) RemainingTargets() int {
	remaining := 0
	for _, row := range b.grid {
		for _, state := range row {
			if !state.IsTargeted() {
				remaining++
			}
		}
	}
	return remaining
}

// Attack resolves a single shot against this board. Shots out of
// bound or at an already targeted position are rejected and do not
// change the board.
func (b *Board) Attack(c Coordinates) (AttackResult, error) {
	if err := b.validateTarget(c); err != nil {
		return AttackResult{}, err
	}

	result := AttackResult{Coordinates: c, Outcome: AttackOutcomeMiss}

	if b.grid.at(c) == PositionStateEmpty {
		b.grid.set(c, PositionStateMiss)
		return result, nil
	}

	// Passed this line means that position is occupied by a ship
	b.grid.set(c, PositionStateHit)
	result.Outcome = AttackOutcomeHit

	ship := b.shipAt[c]
	ship.GotHit()
	if ship.IsSunk() {
		result.SunkShip = ship.name
	}
	return result, nil
}

func (b *Board) SunkenShips() int {
	sunken := 0
	for _, ship := range b.ships {
		if ship.IsSunk() {
			sunken++
		}
	}
	return sunken
}

// A board without ships has nothing to lose.
func (b *Board) AllShipsSunk() bool {
	return len(b.ships) != 0 && b.SunkenShips() == len(b.ships)
}

// Snapshot returns a copy of the board for display. If revealShips is
// false, positions of ships not hit yet are shown as water.
func (b *Board) Snapshot(revealShips bool) [][]SnapshotCell {
	snapshot := make([][]SnapshotCell, b.size)

	for y, row := range b.grid {
		snapshot[y] = make([]SnapshotCell, b.size)
		for x, state := range row {
			switch state {
			case PositionStateOccupied:
				if revealShips {
					snapshot[y][x] = SnapshotCellShip
				}
			case PositionStateHit:
				snapshot[y][x] = SnapshotCellHit
			case PositionStateMiss:
				snapshot[y][x] = SnapshotCellMiss
			}
		}
	}
	return snapshot
}
