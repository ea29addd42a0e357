package battleship

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type PlayerSide uint8

const (
	PlayerSideHuman PlayerSide = iota
	PlayerSideComputer
)

func (ps PlayerSide) String() string {
	if ps == PlayerSideComputer {
		return "Computer"
	}
	return "Player"
}

func (ps PlayerSide) opponent() PlayerSide {
	if ps == PlayerSideHuman {
		return PlayerSideComputer
	}
	return PlayerSideHuman
}

type MatchState uint8

const (
	MatchStateAwaitingPlayerShot MatchState = iota
	MatchStateAwaitingComputerShot
	MatchStateGameOver
)

type matchConfig struct {
	gridSize             int
	maxPlacementAttempts int
	playerName           string
	rng                  *rand.Rand
}

type MatchOption func(*matchConfig) error

func WithGridSize(size int) MatchOption {
	return func(mc *matchConfig) error {
		if size <= 0 {
			return cerr.ErrGridSizeNotPositive(size)
		}
		mc.gridSize = size
		return nil
	}
}

func WithMaxPlacementAttempts(attempts int) MatchOption {
	return func(mc *matchConfig) error {
		if attempts <= 0 {
			return cerr.ErrPlacementAttemptsNotPositive(attempts)
		}
		mc.maxPlacementAttempts = attempts
		return nil
	}
}

func WithPlayerName(name string) MatchOption {
	return func(mc *matchConfig) error {
		mc.playerName = name
		return nil
	}
}

// The same rng drives fleet placement and the computer's shots,
// so a seeded rng makes a whole match reproducible. A *rand.Rand
// is not safe for concurrent use; do not share one between matches
// played at the same time.
func WithRand(rng *rand.Rand) MatchOption {
	return func(mc *matchConfig) error {
		mc.rng = rng
		return nil
	}
}

type Match struct {
	uuid      string
	createdAt time.Time

	player   *Player
	computer *Player
	turn     PlayerSide
	state    MatchState
	winner   PlayerSide

	playerFeedback       string
	computerFeedback     string
	playerSunkFeedback   string
	computerSunkFeedback string

	lastComputerShot *AttackResult
}

// NewMatch sets up both fleets from catalog. The human side
// holds the first turn.
func NewMatch(catalog Catalog, opts ...MatchOption) (*Match, error) {
	mc := matchConfig{
		gridSize:             DefaultGridSize,
		maxPlacementAttempts: DefaultMaxPlacementAttempts,
		playerName:           PlayerNameHuman,
	}
	for _, opt := range opts {
		if err := opt(&mc); err != nil {
			return nil, err
		}
	}
	if mc.rng == nil {
		mc.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if err := catalog.Validate(mc.gridSize); err != nil {
		return nil, err
	}

	playerBoard := NewBoard(mc.gridSize)
	if err := playerBoard.PlaceFleet(catalog, mc.rng, mc.maxPlacementAttempts); err != nil {
		return nil, err
	}
	computerBoard := NewBoard(mc.gridSize)
	if err := computerBoard.PlaceFleet(catalog, mc.rng, mc.maxPlacementAttempts); err != nil {
		return nil, err
	}

	return newMatchWithBoards(
		NewPlayer(mc.playerName, false, playerBoard, mc.rng),
		NewPlayer(PlayerNameComputer, true, computerBoard, mc.rng),
	), nil
}

func newMatchWithBoards(player, computer *Player) *Match {
	return &Match{
		uuid:      uuid.NewString()[:6],
		createdAt: time.Now(),
		player:    player,
		computer:  computer,
		turn:      PlayerSideHuman,
		state:     MatchStateAwaitingPlayerShot,
	}
}

func (m *Match) Uuid() string {
	return m.uuid
}

func (m *Match) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Match) State() MatchState {
	return m.state
}

func (m *Match) Turn() PlayerSide {
	return m.turn
}

func (m *Match) Player(side PlayerSide) *Player {
	if side == PlayerSideComputer {
		return m.computer
	}
	return m.player
}

func (m *Match) IsOver() bool {
	return m.state == MatchStateGameOver
}

func (m *Match) Winner() (PlayerSide, bool) {
	if !m.IsOver() {
		return 0, false
	}
	return m.winner, true
}

func (m *Match) PlayerFeedback() string {
	return m.playerFeedback
}

func (m *Match) ComputerFeedback() string {
	return m.computerFeedback
}

func (m *Match) PlayerSunkFeedback() string {
	return m.playerSunkFeedback
}

func (m *Match) ComputerSunkFeedback() string {
	return m.computerSunkFeedback
}

// Result of the computer's most recent shot, if it has taken one
func (m *Match) LastComputerShot() (AttackResult, bool) {
	if m.lastComputerShot == nil {
		return AttackResult{}, false
	}
	return *m.lastComputerShot, true
}

func (m *Match) BoardSnapshot(side PlayerSide, revealShips bool) [][]SnapshotCell {
	return m.Player(side).board.Snapshot(revealShips)
}

// SubmitHumanShot fires the human player's shot and, unless that ends
// the match, the computer's reply. Only the human shot's result is
// returned; the reply is available through LastComputerShot.
func (m *Match) SubmitHumanShot(c Coordinates) (AttackResult, error) {
	return m.SubmitShot(PlayerSideHuman, c)
}

// SubmitShot resolves a shot by side. The position is ignored for the
// computer side since it picks its own target.
func (m *Match) SubmitShot(side PlayerSide, c Coordinates) (AttackResult, error) {
	if m.IsOver() {
		return AttackResult{}, cerr.ErrMatchFinished(m.uuid)
	}
	if side != m.turn {
		return AttackResult{}, cerr.ErrNotPlayerTurn(side.String())
	}

	if side == PlayerSideComputer {
		return m.computerTurn()
	}

	result, err := m.humanTurn(c)
	if err != nil {
		return AttackResult{}, err
	}
	if m.IsOver() {
		return result, nil
	}

	if _, err := m.computerTurn(); err != nil {
		return AttackResult{}, err
	}
	return result, nil
}

func (m *Match) humanTurn(c Coordinates) (AttackResult, error) {
	target, err := m.player.SelectTarget(m.computer.board, c)
	if err != nil {
		return AttackResult{}, err
	}

	result, err := m.computer.board.Attack(target)
	if err != nil {
		return AttackResult{}, err
	}

	m.playerSunkFeedback = ""
	m.computerSunkFeedback = ""
	m.playerFeedback = result.Outcome.String()
	if result.SunkShip != "" {
		m.playerSunkFeedback = fmt.Sprintf("You sunk my %s!", result.SunkShip)
	}

	m.endTurn(PlayerSideHuman, result)
	return result, nil
}

func (m *Match) computerTurn() (AttackResult, error) {
	target, err := m.computer.SelectTarget(m.player.board)
	if err != nil {
		return AttackResult{}, err
	}

	result, err := m.player.board.Attack(target)
	if err != nil {
		return AttackResult{}, err
	}

	m.lastComputerShot = &result
	m.computerFeedback = result.Outcome.String()
	if result.SunkShip != "" {
		m.computerSunkFeedback = fmt.Sprintf("Your %s has been destroyed!", result.SunkShip)
	}

	m.endTurn(PlayerSideComputer, result)
	return result, nil
}

// endTurn either finishes the match or passes the turn to the
// other side.
func (m *Match) endTurn(attacker PlayerSide, result AttackResult) {
	if result.Outcome == AttackOutcomeHit {
		m.Player(attacker).UpdateScore()
	}

	defender := attacker.opponent()
	if m.Player(defender).board.AllShipsSunk() {
		m.state = MatchStateGameOver
		m.winner = attacker
		return
	}

	m.turn = defender
	if defender == PlayerSideComputer {
		m.state = MatchStateAwaitingComputerShot
	} else {
		m.state = MatchStateAwaitingPlayerShot
	}
}
