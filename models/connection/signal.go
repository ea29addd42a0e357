package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateMatch
	CodeAttack
	CodeEndGame
	CodeSnapshot
	CodeRestart
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Sent on reconnection if the session already had a match
	CodeReconnectionSessionInfo
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
