package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type ReqAttack struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ReqSnapshot struct {
	Side mb.PlayerSide `json:"side"`
}
