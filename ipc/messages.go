package ipc

import "github.com/nstehr/arena-core/model"

// Message types exchanged with a co-located game bridge.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeLevelData = "level_data"
	TypeMoves     = "moves"
	TypeError     = "error"
)

// HelloMessage identifies the player the bridge is driving.
type HelloMessage struct {
	Player string `json:"player"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// MovesMessage is the reply to a level_data envelope.
type MovesMessage struct {
	Moves       []model.Move `json:"moves"`
	NoObjective bool         `json:"no_objective,omitempty"`
}

// ErrorMessage reports a handler failure back to the bridge so it doesn't
// wait on a tick that will never be answered.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
