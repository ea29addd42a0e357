package battleship

import (
	"math/rand/v2"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	PlayerNameHuman    = "Player 1"
	PlayerNameComputer = "Computer"
)

type Player struct {
	uuid       string
	name       string
	isComputer bool
	score      int
	board      *Board
	rng        *rand.Rand
}

func NewPlayer(name string, isComputer bool, board *Board, rng *rand.Rand) *Player {
	return &Player{
		uuid:       uuid.NewString()[:10],
		name:       name,
		isComputer: isComputer,
		score:      0,
		board:      board,
		rng:        rng,
	}
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) IsComputer() bool {
	return p.isComputer
}

func (p *Player) Score() int {
	return p.score
}

func (p *Player) Board() *Board {
	return p.board
}

func (p *Player) UpdateScore() {
	p.score++
}

// SelectTarget picks the position to attack on the opponent board.
// A human player must pass the position chosen by the user; a
// computer player picks a random position not targeted before.
func (p *Player) SelectTarget(opponent *Board, position ...Coordinates) (Coordinates, error) {
	if p.isComputer {
		return p.randomTarget(opponent)
	}

	if len(position) != 1 {
		return Coordinates{}, cerr.ErrHumanTargetAbsent()
	}
	if err := opponent.validateTarget(position[0]); err != nil {
		return Coordinates{}, err
	}
	return position[0], nil
}

func (p *Player) randomTarget(opponent *Board) (Coordinates, error) {
	if opponent.RemainingTargets() == 0 {
		return Coordinates{}, cerr.ErrOpponentBoardExhausted()
	}

	for {
		c := NewCoordinates(p.rng.IntN(opponent.size), p.rng.IntN(opponent.size))
		if !opponent.grid.at(c).IsTargeted() {
			return c, nil
		}
	}
}
