package api

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	matchManager   mb.MatchManager
	catalog        mb.Catalog

	// nil when analytics is disabled
	analytics *sqlc.AnalyticsManager
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	matchManager mb.MatchManager,
	catalog mb.Catalog,
	analytics *sqlc.AnalyticsManager,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		matchManager:   matchManager,
		catalog:        catalog,
		analytics:      analytics,
	}
}

// ServerIpNet returns the first non-loopback IPv4 network of this
// host, used as the analytics key. Falls back to loopback.
func ServerIpNet() net.IPNet {
	fallback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list network interfaces:", err)
		return fallback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return net.IPNet{IP: ipnet.IP.To4(), Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return fallback
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		rp.reconnect(sessionIdQuery, conn)
	}
}

// Only swaps the conn of the session. The goroutine of the session
// picks up the new conn and sends the reconnection info itself.
func (rp RequestProcessor) reconnect(sessionId string, conn *websocket.Conn) {
	if _, err := rp.sessionManager.ReconnectSession(sessionId, conn); err != nil {
		// This either means an expired session or invalid session ID
		_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
		conn.Close()
		return
	}

	log.Println("session reconnected\tRemote Addr: ", conn.RemoteAddr().String())
}

func (rp RequestProcessor) newResumeMessage(session *mc.Session) interface{} {
	if match := session.Match(); match != nil {
		return newReconnectMessage(match)
	}

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	return resp
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if match := session.Match(); match != nil {
			rp.matchManager.TerminateMatch(match.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if connErr, ok := err.(mc.ConnErr); ok && connErr.Code() == mc.ConnLoopResumed {
			if err := rp.sessionManager.WriteToSessionConn(session, rp.newResumeMessage(session), mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}
		if err != nil {
			// Something was wrong with the session connection
			// and couldn't be resolved with retries
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {
		case mc.CodeCreateMatch:
			match, respMsg := NewRequest(payload).HandleCreateMatch(rp.matchManager, session.Match(), rp.catalog)
			if respMsg.Error == nil {
				session.SetMatch(match)
				rp.analytics.RecordMatchCreated()
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// The human shot and the computer's reply are resolved
		// together. If either ends the match, an end game
		// message follows the attack response.
		case mc.CodeAttack:
			match := session.Match()
			respMsg := NewRequest(payload).HandleAttack(match)

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if match.IsOver() {
				winner, _ := match.Winner()
				rp.analytics.RecordMatchFinished(winner == mb.PlayerSideComputer)

				if err := rp.sessionManager.WriteToSessionConn(session, newEndGameMessage(match), mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeSnapshot:
			respMsg := NewRequest(payload).HandleSnapshot(session.Match())
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeRestart:
			match, respMsg := NewRequest(payload).HandleRestart(rp.matchManager, session.Match(), rp.catalog)
			if respMsg.Error == nil {
				session.SetMatch(match)
				rp.analytics.RecordRestart()
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}
