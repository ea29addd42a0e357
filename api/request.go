package api

import (
	"encoding/json"
	"errors"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	msgAttackFailed   = "attack operation failed"
	msgInvalidPayload = "invalid payload"
	msgNoMatch        = "create a match first"
)

// Every incoming valid request will have this structure
type Request struct {
	payload []byte
}

func NewRequest(payload ...[]byte) *Request {
	req := Request{}
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return &req
}

func newRespCreateMatch(match *mb.Match, catalog mb.Catalog) mc.RespCreateMatch {
	player := match.Player(mb.PlayerSideHuman)
	return mc.RespCreateMatch{
		MatchUuid:   match.Uuid(),
		PlayerUuid:  player.Uuid(),
		GridSize:    player.Board().Size(),
		Catalog:     catalog,
		DefenceGrid: match.BoardSnapshot(mb.PlayerSideHuman, true),
	}
}

// A session plays one match at a time; creating a new one
// drops the current one.
func (r *Request) HandleCreateMatch(mm mb.MatchManager, current *mb.Match, catalog mb.Catalog) (*mb.Match, mc.Message[mc.RespCreateMatch]) {
	resp := mc.NewMessage[mc.RespCreateMatch](mc.CodeCreateMatch)

	match, err := mm.CreateMatch()
	if err != nil {
		resp.AddError(err.Error(), "failed to create match")
		return nil, resp
	}
	if current != nil {
		mm.TerminateMatch(current.Uuid())
	}

	resp.AddPayload(newRespCreateMatch(match, catalog))
	return match, resp
}

func (r *Request) HandleRestart(mm mb.MatchManager, current *mb.Match, catalog mb.Catalog) (*mb.Match, mc.Message[mc.RespCreateMatch]) {
	resp := mc.NewMessage[mc.RespCreateMatch](mc.CodeRestart)
	if current == nil {
		resp.AddError(cerr.ErrMatchNotExists.Error(), msgNoMatch)
		return nil, resp
	}

	match, err := mm.RestartMatch(current.Uuid())
	if err != nil {
		resp.AddError(err.Error(), "failed to restart match")
		return nil, resp
	}

	resp.AddPayload(newRespCreateMatch(match, catalog))
	return match, resp
}

// HandleAttack fires the human shot. The computer's reply is
// part of the same response.
func (r *Request) HandleAttack(match *mb.Match) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if match == nil {
		resp.AddError(cerr.ErrMatchNotExists.Error(), msgNoMatch)
		return resp
	}

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), msgInvalidPayload)
		return resp
	}

	result, err := match.SubmitHumanShot(mb.NewCoordinates(req.Payload.X, req.Payload.Y))
	if err != nil {
		resp.AddError(err.Error(), attackErrMessage(err))
		return resp
	}

	respAttack := mc.RespAttack{
		X:                    result.Coordinates.X,
		Y:                    result.Coordinates.Y,
		Outcome:              result.Outcome,
		SunkShip:             result.SunkShip,
		PlayerFeedback:       match.PlayerFeedback(),
		PlayerSunkFeedback:   match.PlayerSunkFeedback(),
		ComputerFeedback:     match.ComputerFeedback(),
		ComputerSunkFeedback: match.ComputerSunkFeedback(),
		IsTurn:               !match.IsOver() && match.Turn() == mb.PlayerSideHuman,
		SunkenShipsPlayer:    match.Player(mb.PlayerSideHuman).Board().SunkenShips(),
		SunkenShipsComputer:  match.Player(mb.PlayerSideComputer).Board().SunkenShips(),
		Score:                match.Player(mb.PlayerSideHuman).Score(),
	}
	if computerShot, ok := match.LastComputerShot(); ok {
		respAttack.ComputerShot = &computerShot
	}

	resp.AddPayload(respAttack)
	return resp
}

func attackErrMessage(err error) string {
	switch {
	case errors.Is(err, cerr.ErrOutOfBounds):
		return "position is out of the grid"
	case errors.Is(err, cerr.ErrAlreadyTargeted):
		return "position already attacked"
	case errors.Is(err, cerr.ErrMatchOver):
		return "match is over"
	case errors.Is(err, cerr.ErrOutOfTurn):
		return "not your turn"
	default:
		return msgAttackFailed
	}
}

// Own board is revealed; the computer's ships stay hidden
// until they are hit.
func (r *Request) HandleSnapshot(match *mb.Match) mc.Message[mc.RespSnapshot] {
	resp := mc.NewMessage[mc.RespSnapshot](mc.CodeSnapshot)
	if match == nil {
		resp.AddError(cerr.ErrMatchNotExists.Error(), msgNoMatch)
		return resp
	}

	var req mc.Message[mc.ReqSnapshot]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), msgInvalidPayload)
		return resp
	}

	side := req.Payload.Side
	if side != mb.PlayerSideHuman && side != mb.PlayerSideComputer {
		resp.AddError("", "side must be 0 (player) or 1 (computer)")
		return resp
	}

	resp.AddPayload(mc.RespSnapshot{
		Side: side,
		Grid: match.BoardSnapshot(side, side == mb.PlayerSideHuman),
	})
	return resp
}

func newEndGameMessage(match *mb.Match) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)

	winner, over := match.Winner()
	status := mc.PlayerMatchStatusUndefined
	if over {
		status = mc.PlayerMatchStatusLost
		if winner == mb.PlayerSideHuman {
			status = mc.PlayerMatchStatusWon
		}
	}

	resp.AddPayload(mc.RespEndGame{Winner: winner.String(), PlayerMatchStatus: status})
	return resp
}

func newReconnectMessage(match *mb.Match) mc.Message[mc.RespReconnect] {
	resp := mc.NewMessage[mc.RespReconnect](mc.CodeReconnectionSessionInfo)
	resp.AddPayload(mc.RespReconnect{
		MatchUuid:      match.Uuid(),
		IsTurn:         !match.IsOver() && match.Turn() == mb.PlayerSideHuman,
		DefenceGrid:    match.BoardSnapshot(mb.PlayerSideHuman, true),
		AttackGrid:     match.BoardSnapshot(mb.PlayerSideComputer, false),
		PlayerFeedback: match.PlayerFeedback(),
	})
	return resp
}
