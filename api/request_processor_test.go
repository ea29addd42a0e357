package api

import (
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/sqlc-dev/pqtype"
)

const outOfGridBoundNum = 255

var (
	testIpNet = net.IPNet{IP: net.ParseIP("10.0.0.9"), Mask: net.CIDRMask(32, 32)}
	dialer    = websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectedErr  string

	reqPayload  T
	respPayload K
}

type testServer struct {
	wsUrl          string
	matchManager   *mb.BattleshipMatchManager
	sessionManager *mc.BattleshipSessionManager
}

func newTestServer(t *testing.T, analytics *sqlc.AnalyticsManager, gracePeriod time.Duration) testServer {
	t.Helper()

	bmm := mb.NewBattleshipMatchManager(mb.DefaultCatalog)
	bsm := mc.NewBattleshipSessionManager(mc.WithGracePeriod(gracePeriod))

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", NewRequestProcessor(bsm, bmm, mb.DefaultCatalog, analytics))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return testServer{
		wsUrl:          "ws" + strings.TrimPrefix(srv.URL, "http") + "/battleship",
		matchManager:   bmm,
		sessionManager: bsm,
	}
}

func dialSession(t *testing.T, wsUrl string) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(wsUrl, nil)
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var resp mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeSessionID {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeSessionID, resp.Code)
	}
	if resp.Payload.SessionID == "" {
		t.Fatal("empty session id")
	}

	return conn, resp.Payload.SessionID
}

func writeAndRead[T, K any](t *testing.T, conn *websocket.Conn, req T) mc.Message[K] {
	t.Helper()

	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[K]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func createMatch(t *testing.T, conn *websocket.Conn) mc.RespCreateMatch {
	t.Helper()

	resp := writeAndRead[mc.Signal, mc.RespCreateMatch](t, conn, mc.NewSignal(mc.CodeCreateMatch))
	if resp.Code != mc.CodeCreateMatch {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeCreateMatch, resp.Code)
	}
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}
	return resp.Payload
}

func attackReq(x, y int) mc.Message[mc.ReqAttack] {
	return mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{X: x, Y: y}}
}

func TestInvalidCode(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)

	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
		},
		{
			name:         "end game is server side only",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeEndGame),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = writeAndRead[mc.Message[mc.NoPayload], mc.NoPayload](t, conn, test.reqPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatal("expected error in response")
			}
		})
	}
}

func TestSignalAbsent(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("fire at will")); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.NoPayload]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeSignalAbsent {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeSignalAbsent, resp.Code)
	}
}

func TestRequestsWithoutMatch(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)

	tests := []Test[mc.Signal, mc.Message[mc.NoPayload]]{
		{name: "attack", expectedCode: mc.CodeAttack, expectedErr: msgNoMatch, reqPayload: mc.NewSignal(mc.CodeAttack)},
		{name: "snapshot", expectedCode: mc.CodeSnapshot, expectedErr: msgNoMatch, reqPayload: mc.NewSignal(mc.CodeSnapshot)},
		{name: "restart", expectedCode: mc.CodeRestart, expectedErr: msgNoMatch, reqPayload: mc.NewSignal(mc.CodeRestart)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = writeAndRead[mc.Signal, mc.NoPayload](t, conn, test.reqPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatal("expected error in response")
			}
			if test.respPayload.Error.Message != test.expectedErr {
				t.Fatalf("expected error: %s\t got: %s", test.expectedErr, test.respPayload.Error.Message)
			}
		})
	}
}

func TestCreateMatch(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)

	created := createMatch(t, conn)
	if created.GridSize != mb.DefaultGridSize {
		t.Fatalf("expected grid size: %d\t got: %d", mb.DefaultGridSize, created.GridSize)
	}
	if len(created.Catalog) != len(mb.DefaultCatalog) {
		t.Fatalf("expected %d ship types, got: %d", len(mb.DefaultCatalog), len(created.Catalog))
	}

	// own fleet is revealed in full
	shipCells := 0
	for _, row := range created.DefenceGrid {
		for _, cell := range row {
			if cell == mb.SnapshotCellShip {
				shipCells++
			}
		}
	}
	if shipCells != mb.DefaultCatalog.Footprint() {
		t.Fatalf("expected %d ship cells, got: %d", mb.DefaultCatalog.Footprint(), shipCells)
	}

	if _, err := ts.matchManager.GetMatch(created.MatchUuid); err != nil {
		t.Fatal(err)
	}

	// a second create replaces the first match
	recreated := createMatch(t, conn)
	if recreated.MatchUuid == created.MatchUuid {
		t.Fatal("expected a new match uuid")
	}
	if ts.matchManager.MatchCount() != 1 {
		t.Fatalf("expected 1 match, got: %d", ts.matchManager.MatchCount())
	}
}

func TestAttackRejections(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)
	createMatch(t, conn)

	first := writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, conn, attackReq(0, 0))
	if first.Error != nil {
		t.Fatalf("error: %s", first.Error.ErrorDetails)
	}

	tests := []Test[mc.Message[mc.ReqAttack], mc.Message[mc.RespAttack]]{
		{
			name:         "out of bound x",
			expectedCode: mc.CodeAttack,
			expectedErr:  "position is out of the grid",
			reqPayload:   attackReq(outOfGridBoundNum, 0),
		},
		{
			name:         "negative y",
			expectedCode: mc.CodeAttack,
			expectedErr:  "position is out of the grid",
			reqPayload:   attackReq(0, -1),
		},
		{
			name:         "same position twice",
			expectedCode: mc.CodeAttack,
			expectedErr:  "position already attacked",
			reqPayload:   attackReq(0, 0),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, conn, test.reqPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatal("expected error in response")
			}
			if test.respPayload.Error.Message != test.expectedErr {
				t.Fatalf("expected error: %s\t got: %s", test.expectedErr, test.respPayload.Error.Message)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)
	createMatch(t, conn)

	attack := writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, conn, attackReq(3, 4))
	if attack.Error != nil {
		t.Fatalf("error: %s", attack.Error.ErrorDetails)
	}

	tests := []Test[mc.Message[mc.ReqSnapshot], mc.Message[mc.RespSnapshot]]{
		{
			name:         "player side",
			expectedCode: mc.CodeSnapshot,
			reqPayload:   mc.Message[mc.ReqSnapshot]{Code: mc.CodeSnapshot, Payload: mc.ReqSnapshot{Side: mb.PlayerSideHuman}},
		},
		{
			name:         "computer side",
			expectedCode: mc.CodeSnapshot,
			reqPayload:   mc.Message[mc.ReqSnapshot]{Code: mc.CodeSnapshot, Payload: mc.ReqSnapshot{Side: mb.PlayerSideComputer}},
		},
		{
			name:         "invalid side",
			expectedCode: mc.CodeSnapshot,
			expectedErr:  "side must be 0 (player) or 1 (computer)",
			reqPayload:   mc.Message[mc.ReqSnapshot]{Code: mc.CodeSnapshot, Payload: mc.ReqSnapshot{Side: 7}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = writeAndRead[mc.Message[mc.ReqSnapshot], mc.RespSnapshot](t, conn, test.reqPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}

			if test.expectedErr != "" {
				if test.respPayload.Error == nil || test.respPayload.Error.Message != test.expectedErr {
					t.Fatalf("expected error: %s\t got: %+v", test.expectedErr, test.respPayload.Error)
				}
				return
			}
			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.Message)
			}

			grid := test.respPayload.Payload.Grid
			if len(grid) != mb.DefaultGridSize {
				t.Fatalf("expected %d rows, got: %d", mb.DefaultGridSize, len(grid))
			}

			if test.reqPayload.Payload.Side == mb.PlayerSideComputer {
				cell := grid[4][3]
				if cell != mb.SnapshotCellHit && cell != mb.SnapshotCellMiss {
					t.Fatalf("expected attacked cell, got: %s", cell)
				}
				for _, row := range grid {
					for _, c := range row {
						if c == mb.SnapshotCellShip {
							t.Fatal("computer ships must stay hidden")
						}
					}
				}
			}
		})
	}
}

func TestPlayFullMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	inet := pqtype.Inet{IPNet: testIpNet, Valid: true}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, matches_created)")).
		WithArgs(inet).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, matches_finished, computer_wins)")).
		WithArgs(inet, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, restarts)")).
		WithArgs(inet).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ts := newTestServer(t, sqlc.NewDbManager(db, testIpNet).Analytics, time.Second)
	conn, _ := dialSession(t, ts.wsUrl)
	created := createMatch(t, conn)

	var (
		lastAttack mc.RespAttack
		ended      bool
	)

attackLoop:
	for y := 0; y < created.GridSize; y++ {
		for x := 0; x < created.GridSize; x++ {
			resp := writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, conn, attackReq(x, y))
			if resp.Error != nil {
				t.Fatalf("attack (%d,%d) failed: %s", x, y, resp.Error.ErrorDetails)
			}
			if resp.Payload.X != x || resp.Payload.Y != y {
				t.Fatalf("expected shot at (%d,%d), got: (%d,%d)", x, y, resp.Payload.X, resp.Payload.Y)
			}
			lastAttack = resp.Payload

			if resp.Payload.IsTurn {
				if resp.Payload.ComputerShot == nil {
					t.Fatal("computer must reply while the match goes on")
				}
				continue
			}

			// turn never returns to the player once the match is over
			var endGame mc.Message[mc.RespEndGame]
			if err := conn.ReadJSON(&endGame); err != nil {
				t.Fatal(err)
			}
			if endGame.Code != mc.CodeEndGame {
				t.Fatalf("expected code: %d\t got: %d", mc.CodeEndGame, endGame.Code)
			}

			switch endGame.Payload.PlayerMatchStatus {
			case mc.PlayerMatchStatusWon:
				if lastAttack.SunkenShipsComputer != len(mb.DefaultCatalog) {
					t.Fatalf("player won with %d computer ships sunk", lastAttack.SunkenShipsComputer)
				}
			case mc.PlayerMatchStatusLost:
				if lastAttack.SunkenShipsPlayer != len(mb.DefaultCatalog) {
					t.Fatalf("computer won with %d player ships sunk", lastAttack.SunkenShipsPlayer)
				}
			default:
				t.Fatalf("unexpected match status: %d", endGame.Payload.PlayerMatchStatus)
			}

			ended = true
			break attackLoop
		}
	}

	if !ended {
		t.Fatal("match did not end after every cell was attacked")
	}

	afterEnd := writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, conn, attackReq(0, 0))
	if afterEnd.Error == nil || afterEnd.Error.Message != "match is over" {
		t.Fatalf("expected match over error, got: %+v", afterEnd.Error)
	}

	restart := writeAndRead[mc.Signal, mc.RespCreateMatch](t, conn, mc.NewSignal(mc.CodeRestart))
	if restart.Code != mc.CodeRestart {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeRestart, restart.Code)
	}
	if restart.Error != nil {
		t.Fatalf("error: %s", restart.Error.ErrorDetails)
	}
	if restart.Payload.MatchUuid == created.MatchUuid {
		t.Fatal("restart must start a new match")
	}
	if ts.matchManager.MatchCount() != 1 {
		t.Fatalf("expected 1 match, got: %d", ts.matchManager.MatchCount())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("analytics expectations were not met: %s", err)
	}
}

func TestReconnectInvalidSession(t *testing.T) {
	ts := newTestServer(t, nil, time.Second)

	conn, _, err := dialer.Dial(ts.wsUrl+"?"+URLQuerySessionIDKeyword+"=not-a-session", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var resp mc.Message[mc.NoPayload]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeReceivedInvalidSessionID {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeReceivedInvalidSessionID, resp.Code)
	}
}

func TestReconnectAfterAbnormalClosure(t *testing.T) {
	ts := newTestServer(t, nil, time.Second*5)
	conn, sessionId := dialSession(t, ts.wsUrl)
	created := createMatch(t, conn)

	// closes the tcp conn without a close frame
	conn.Close()
	time.Sleep(time.Millisecond * 200)

	newConn, _, err := dialer.Dial(ts.wsUrl+"?"+URLQuerySessionIDKeyword+"="+sessionId, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer newConn.Close()

	var reconnect mc.Message[mc.RespReconnect]
	if err := newConn.ReadJSON(&reconnect); err != nil {
		t.Fatal(err)
	}
	if reconnect.Code != mc.CodeReconnectionSessionInfo {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeReconnectionSessionInfo, reconnect.Code)
	}
	if reconnect.Payload.MatchUuid != created.MatchUuid {
		t.Fatalf("expected match: %s\t got: %s", created.MatchUuid, reconnect.Payload.MatchUuid)
	}
	if !reconnect.Payload.IsTurn {
		t.Fatal("expected player's turn after reconnection")
	}

	// the session keeps playing on the new conn
	attack := writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, newConn, attackReq(1, 1))
	if attack.Error != nil {
		t.Fatalf("error: %s", attack.Error.ErrorDetails)
	}
}

func TestReconnectWhileOldConnOpen(t *testing.T) {
	ts := newTestServer(t, nil, time.Second*5)
	oldConn, sessionId := dialSession(t, ts.wsUrl)
	created := createMatch(t, oldConn)

	newConn, _, err := dialer.Dial(ts.wsUrl+"?"+URLQuerySessionIDKeyword+"="+sessionId, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer newConn.Close()

	if err := newConn.SetReadDeadline(time.Now().Add(time.Second * 3)); err != nil {
		t.Fatal(err)
	}

	var reconnect mc.Message[mc.RespReconnect]
	if err := newConn.ReadJSON(&reconnect); err != nil {
		t.Fatal(err)
	}
	if reconnect.Code != mc.CodeReconnectionSessionInfo {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeReconnectionSessionInfo, reconnect.Code)
	}
	if reconnect.Payload.MatchUuid != created.MatchUuid {
		t.Fatalf("expected match: %s\t got: %s", created.MatchUuid, reconnect.Payload.MatchUuid)
	}

	// server drops the replaced conn; a close frame from the client goes nowhere
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = oldConn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))

	var stale mc.Message[mc.NoPayload]
	if err := oldConn.SetReadDeadline(time.Now().Add(time.Second * 3)); err != nil {
		t.Fatal(err)
	}
	if err := oldConn.ReadJSON(&stale); err == nil {
		t.Fatal("expected the replaced conn to be closed")
	}

	attack := writeAndRead[mc.Message[mc.ReqAttack], mc.RespAttack](t, newConn, attackReq(2, 2))
	if attack.Code != mc.CodeAttack {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeAttack, attack.Code)
	}
	if attack.Error != nil {
		t.Fatalf("error: %s", attack.Error.ErrorDetails)
	}

	if _, err := ts.sessionManager.FindSession(sessionId); err != nil {
		t.Fatalf("session must survive the reconnection: %v", err)
	}
	if ts.matchManager.MatchCount() != 1 {
		t.Fatalf("expected 1 match, got: %d", ts.matchManager.MatchCount())
	}
}

func TestSessionTerminatedAfterGracePeriod(t *testing.T) {
	ts := newTestServer(t, nil, time.Millisecond*100)
	conn, sessionId := dialSession(t, ts.wsUrl)
	createMatch(t, conn)

	conn.Close()

	deadline := time.Now().Add(time.Second * 3)
	for time.Now().Before(deadline) {
		if _, err := ts.sessionManager.FindSession(sessionId); err != nil {
			if ts.matchManager.MatchCount() != 0 {
				t.Fatalf("expected match to be terminated, got: %d", ts.matchManager.MatchCount())
			}
			return
		}
		time.Sleep(time.Millisecond * 20)
	}
	t.Fatal("session was not terminated after grace period")
}
