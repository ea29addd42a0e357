package battleship

import (
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "V"
	}
	return "H"
}

type ShipType struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// Catalog order is the placement order.
type Catalog []ShipType

var DefaultCatalog = Catalog{
	{Name: "Battleship", Length: 4},
	{Name: "Destroyer", Length: 3},
	{Name: "Submarine", Length: 2},
}

func (c Catalog) Validate(gridSize int) error {
	if len(c) == 0 {
		return cerr.ErrEmptyCatalog()
	}
	for _, st := range c {
		if strings.TrimSpace(st.Name) == "" || st.Length <= 0 || st.Length > gridSize {
			return cerr.ErrInvalidShipType(st.Name, st.Length)
		}
	}
	return nil
}

// Footprint is the total number of cells the catalog occupies.
func (c Catalog) Footprint() int {
	total := 0
	for _, st := range c {
		total += st.Length
	}
	return total
}

type Ship struct {
	name        string
	length      int
	orientation Orientation
	anchor      Coordinates
	hits        int
	coordinates []Coordinates
}

func NewShip(shipType ShipType, anchor Coordinates, orientation Orientation) *Ship {
	coords := make([]Coordinates, 0, shipType.Length)
	for i := 0; i < shipType.Length; i++ {
		if orientation == OrientationHorizontal {
			coords = append(coords, NewCoordinates(anchor.X+i, anchor.Y))
		} else {
			coords = append(coords, NewCoordinates(anchor.X, anchor.Y+i))
		}
	}

	return &Ship{
		name:        shipType.Name,
		length:      shipType.Length,
		orientation: orientation,
		anchor:      anchor,
		hits:        0,
		coordinates: coords,
	}
}

func (sh *Ship) Name() string {
	return sh.name
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) Hits() int {
	return sh.hits
}

func (sh *Ship) Anchor() Coordinates {
	return sh.anchor
}

func (sh *Ship) Orientation() Orientation {
	return sh.orientation
}

// Returns a copy; the placement of a ship never changes.
func (sh *Ship) Coordinates() []Coordinates {
	coords := make([]Coordinates, len(sh.coordinates))
	copy(coords, sh.coordinates)
	return coords
}

func (sh *Ship) GotHit() {
	if sh.hits < sh.length {
		sh.hits++
	}
}

func (sh *Ship) IsSunk() bool {
	return sh.hits >= sh.length
}
