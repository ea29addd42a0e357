package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateMatch struct {
	MatchUuid   string              `json:"match_uuid"`
	PlayerUuid  string              `json:"player_uuid"`
	GridSize    int                 `json:"grid_size"`
	Catalog     mb.Catalog          `json:"catalog"`
	DefenceGrid [][]mb.SnapshotCell `json:"defence_grid"`
}

type RespAttack struct {
	X                    int              `json:"x"`
	Y                    int              `json:"y"`
	Outcome              mb.AttackOutcome `json:"outcome"`
	SunkShip             string           `json:"sunk_ship,omitempty"`
	PlayerFeedback       string           `json:"player_feedback"`
	PlayerSunkFeedback   string           `json:"player_sunk_feedback,omitempty"`
	ComputerShot         *mb.AttackResult `json:"computer_shot,omitempty"`
	ComputerFeedback     string           `json:"computer_feedback,omitempty"`
	ComputerSunkFeedback string           `json:"computer_sunk_feedback,omitempty"`
	IsTurn               bool             `json:"is_turn"`
	SunkenShipsPlayer    int              `json:"sunken_ships_player"`
	SunkenShipsComputer  int              `json:"sunken_ships_computer"`
	Score                int              `json:"score"`
}

type RespSnapshot struct {
	Side mb.PlayerSide       `json:"side"`
	Grid [][]mb.SnapshotCell `json:"grid"`
}

type RespEndGame struct {
	Winner            string `json:"winner"`
	PlayerMatchStatus int    `json:"player_match_status"`
}

type RespReconnect struct {
	MatchUuid      string              `json:"match_uuid"`
	IsTurn         bool                `json:"is_turn"`
	DefenceGrid    [][]mb.SnapshotCell `json:"defence_grid"`
	AttackGrid     [][]mb.SnapshotCell `json:"attack_grid"`
	PlayerFeedback string              `json:"player_feedback"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
