package battleship

import (
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanSelectTarget(t *testing.T) {
	opponent, _ := boardWithShip(t, ShipType{Name: "Submarine", Length: 2}, NewCoordinates(0, 0), OrientationHorizontal)
	_, err := opponent.Attack(NewCoordinates(4, 4))
	require.NoError(t, err)

	human := NewPlayer(PlayerNameHuman, false, NewBoard(DefaultGridSize), newSeededRand(1))

	tests := []struct {
		name        string
		position    []Coordinates
		expectedErr error
	}{
		{name: "valid position", position: []Coordinates{{1, 0}}},
		{name: "no position", position: nil, expectedErr: cerr.ErrMissingTarget},
		{name: "two positions", position: []Coordinates{{1, 0}, {2, 0}}, expectedErr: cerr.ErrMissingTarget},
		{name: "out of bound", position: []Coordinates{{10, 3}}, expectedErr: cerr.ErrOutOfBounds},
		{name: "already targeted", position: []Coordinates{{4, 4}}, expectedErr: cerr.ErrAlreadyTargeted},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			target, err := human.SelectTarget(opponent, test.position...)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.position[0], target)
		})
	}
}

func TestComputerSelectTargetSkipsTargeted(t *testing.T) {
	opponent := NewBoard(3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 2 && y == 1 {
				continue
			}
			_, err := opponent.Attack(NewCoordinates(x, y))
			require.NoError(t, err)
		}
	}

	computer := NewPlayer(PlayerNameComputer, true, NewBoard(3), newSeededRand(42))
	for i := 0; i < 20; i++ {
		target, err := computer.SelectTarget(opponent)
		require.NoError(t, err)
		assert.Equal(t, NewCoordinates(2, 1), target)
	}

	_, err := opponent.Attack(NewCoordinates(2, 1))
	require.NoError(t, err)

	_, err = computer.SelectTarget(opponent)
	require.ErrorIs(t, err, cerr.ErrNoTargetsLeft)
}

func TestComputerSelectTargetCoversBoard(t *testing.T) {
	opponent := NewBoard(DefaultGridSize)
	computer := NewPlayer(PlayerNameComputer, true, NewBoard(DefaultGridSize), newSeededRand(3))

	for i := 0; i < DefaultGridSize*DefaultGridSize; i++ {
		target, err := computer.SelectTarget(opponent)
		require.NoError(t, err)
		require.True(t, opponent.IsTargetable(target))
		_, err = opponent.Attack(target)
		require.NoError(t, err)
	}
	assert.Zero(t, opponent.RemainingTargets())
}

func TestUpdateScore(t *testing.T) {
	p := NewPlayer(PlayerNameHuman, false, NewBoard(DefaultGridSize), newSeededRand(1))
	assert.Zero(t, p.Score())

	p.UpdateScore()
	p.UpdateScore()
	assert.Equal(t, 2, p.Score())
	assert.Len(t, p.Uuid(), 10)
}
